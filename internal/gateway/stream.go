package gateway

import (
	"bufio"
	"encoding/json"
	"io"
)

// streamChunk is one newline-delimited provider chunk. Only the text is
// consumed; other chunk fields pass through untouched.
type streamChunk struct {
	Text string `json:"text"`
}

// Stream consumes newline-delimited JSON chunks as they arrive. The contract
// favors never dropping output over strict parsing: a line that fails to
// decode is surfaced verbatim rather than aborting the stream.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Stream{body: body, scanner: scanner}
}

// Recv returns the next chunk's text. It returns io.EOF once the stream is
// exhausted and the underlying transport error if reading fails mid-stream.
func (s *Stream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return string(line), nil
		}
		return chunk.Text, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	return s.body.Close()
}
