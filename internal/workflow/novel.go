package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/store"
)

// chapterContextWindow is how much trailing document text each chapter prompt
// carries for continuity. The full document would blow the prompt budget on
// long manuscripts; the tail keeps tone and immediate plot threads.
const chapterContextWindow = 2000

// NovelWriter drafts multi-chapter fiction into a studio document. Chapters
// are generated strictly in order; a mid-run failure keeps every chapter
// already committed.
type NovelWriter struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewNovelWriter wires the novel orchestrator.
func NewNovelWriter(deps Deps) *NovelWriter {
	return &NovelWriter{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

// WriteChapters appends chapters sequentially to the document and returns how
// many were committed. The returned count is valid even when err is non-nil.
func (n *NovelWriter) WriteChapters(ctx context.Context, userID, docID, premise string, chapters int) (int, error) {
	user, err := activeUser(n.store, userID)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(premise) == "" {
		return 0, fmt.Errorf("empty premise: %w", domain.ErrInvalidInput)
	}
	if chapters <= 0 {
		chapters = 1
	}

	doc, ok := n.store.DocumentByID(docID)
	if !ok {
		return 0, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	if doc.UserID != user.ID {
		return 0, fmt.Errorf("document %s: %w", docID, domain.ErrForbidden)
	}

	written := 0
	for i := 1; i <= chapters; i++ {
		doc, _ = n.store.DocumentByID(docID)
		prompt := chapterPrompt(premise, i, chapters, tail(doc.Content, chapterContextWindow))

		result, err := n.gateway.GenerateContent(ctx, n.model, gateway.ContentPayload{Contents: prompt})
		if err != nil {
			n.logger.Warn().Err(err).Int("chapter", i).Msg("novel: chapter generation aborted")
			return written, providerErr(fmt.Sprintf("chapter %d", i), err)
		}
		body := strings.TrimSpace(result.Text)
		if body == "" {
			return written, providerErr(fmt.Sprintf("chapter %d", i), fmt.Errorf("empty chapter"))
		}

		heading := fmt.Sprintf("Chapter %d", i)
		n.store.MutateDocument(docID, func(d *domain.StudioDocument) {
			if d.Content != "" {
				d.Content += "\n\n"
			}
			d.Content += heading + "\n\n" + body
			d.Recount()
			d.LastModified = n.store.Now()
		})
		written++
	}

	n.store.LogActivity(user, "Wrote Novel Chapters", fmt.Sprintf("%d chapters: %s", written, doc.Title))
	return written, nil
}

// chapterPrompt frames one chapter request with the premise, the position in
// the book and the trailing context of everything written so far.
func chapterPrompt(premise string, chapter, total int, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are writing chapter %d of a %d-chapter novel.\n", chapter, total)
	b.WriteString("Premise: ")
	b.WriteString(premise)
	b.WriteString("\n")
	if context != "" {
		b.WriteString("The story so far ends with:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Write chapter %d. Return only the chapter prose, no headings.", chapter)
	return b.String()
}

// tail returns up to the last n bytes of s, moved forward to the nearest rune
// boundary so a multi-byte character is never split.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
