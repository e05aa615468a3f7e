package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/store"
)

const chatFailureText = "Sorry, something went wrong. Please try again."

// Chat orchestrates streaming conversations. The user turn and a model
// placeholder are committed before the stream opens so a transcript reader
// always sees the exchange in flight; the placeholder is folded in place as
// chunks arrive and becomes an error marker if the stream breaks.
type Chat struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewChat wires the chat orchestrator.
func NewChat(deps Deps) *Chat {
	return &Chat{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

// StartSession creates an empty transcript owned by the user.
func (c *Chat) StartSession(userID, name, persona string) (domain.ChatSession, error) {
	user, err := activeUser(c.store, userID)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = "New Chat"
	}
	session := domain.ChatSession{
		ID:        store.NewID(),
		UserID:    user.ID,
		Name:      name,
		Persona:   persona,
		CreatedAt: c.store.Now(),
	}
	c.store.SaveChatSession(session)
	return session, nil
}

// Send appends the user turn, streams the model reply into the transcript and
// returns the settled session. onChunk may be nil; when set it receives the
// cumulative reply text after every fold so callers can relay the stream.
func (c *Chat) Send(ctx context.Context, userID, sessionID, text string, onChunk func(cumulative string)) (domain.ChatSession, error) {
	user, err := activeUser(c.store, userID)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.ChatSession{}, fmt.Errorf("empty message: %w", domain.ErrInvalidInput)
	}

	session, ok := c.store.ChatSessionByID(sessionID)
	if !ok {
		return domain.ChatSession{}, fmt.Errorf("chat session %s: %w", sessionID, domain.ErrNotFound)
	}
	if session.UserID != user.ID {
		return domain.ChatSession{}, fmt.Errorf("chat session %s: %w", sessionID, domain.ErrForbidden)
	}

	// Commit the user turn and the model placeholder before the provider is
	// involved so the exchange survives a transport failure.
	c.store.MutateChatSession(sessionID, func(s *domain.ChatSession) {
		s.Messages = append(s.Messages,
			domain.ChatMessage{Role: domain.ChatRoleUser, Text: text},
			domain.ChatMessage{Role: domain.ChatRoleModel, Text: ""},
		)
	})

	stream, err := c.gateway.GenerateContentStream(ctx, c.model, gateway.ContentPayload{
		Contents: c.transcript(sessionID),
	})
	if err != nil {
		c.failPlaceholder(sessionID)
		return c.session(sessionID), providerErr("open chat stream", err)
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.failPlaceholder(sessionID)
			return c.session(sessionID), providerErr("read chat stream", err)
		}
		reply.WriteString(chunk)
		cumulative := reply.String()
		c.store.MutateChatSession(sessionID, func(s *domain.ChatSession) {
			s.Messages[len(s.Messages)-1].Text = cumulative
		})
		if onChunk != nil {
			onChunk(cumulative)
		}
	}

	if reply.Len() == 0 {
		c.failPlaceholder(sessionID)
		return c.session(sessionID), providerErr("read chat stream", fmt.Errorf("empty reply"))
	}

	recordSuccess(c.store, user.ID, func(u *domain.User) { u.Usage.Chats++ }, "Chatted with AI", session.Name)
	return c.session(sessionID), nil
}

// transcript builds the provider transcript from the settled turns, skipping
// the trailing placeholder and any failed exchanges.
func (c *Chat) transcript(sessionID string) []gateway.TranscriptMessage {
	session, ok := c.store.ChatSessionByID(sessionID)
	if !ok {
		return nil
	}
	messages := session.Messages
	if n := len(messages); n > 0 && messages[n-1].Role == domain.ChatRoleModel && messages[n-1].Text == "" {
		messages = messages[:n-1]
	}

	out := make([]gateway.TranscriptMessage, 0, len(messages))
	for _, m := range messages {
		if m.Error {
			continue
		}
		out = append(out, gateway.TranscriptMessage{
			Role:  string(m.Role),
			Parts: []gateway.Part{{Text: m.Text}},
		})
	}
	return out
}

func (c *Chat) failPlaceholder(sessionID string) {
	c.store.MutateChatSession(sessionID, func(s *domain.ChatSession) {
		last := &s.Messages[len(s.Messages)-1]
		last.Text = chatFailureText
		last.Error = true
	})
}

func (c *Chat) session(sessionID string) domain.ChatSession {
	s, _ := c.store.ChatSessionByID(sessionID)
	return s
}
