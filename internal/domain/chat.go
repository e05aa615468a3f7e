package domain

import "time"

// ChatRole enumerates message authorship inside a chat transcript.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one entry in a transcript. Error marks a terminal failure
// placeholder left behind when a stream broke mid-response.
type ChatMessage struct {
	Role  ChatRole `json:"role"`
	Text  string   `json:"text"`
	Error bool     `json:"error,omitempty"`
}

// ChatSession is an append-only transcript owned by one user. Persona tags a
// session for future specialization.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Name      string        `json:"name"`
	Persona   string        `json:"persona"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
}
