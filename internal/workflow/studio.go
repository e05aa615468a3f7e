package workflow

import (
	"context"
	"fmt"
	"strings"

	"creativesuite/internal/domain"
	"creativesuite/internal/gateway"
	"creativesuite/internal/infra"
	"creativesuite/internal/policy"
	"creativesuite/internal/store"
)

// StudioAction names the writing assists the studio supports.
type StudioAction string

const (
	StudioActionRewrite   StudioAction = "rewrite"
	StudioActionSummarize StudioAction = "summarize"
	StudioActionExpand    StudioAction = "expand"
	StudioActionProofread StudioAction = "proofread"
	StudioActionContinue  StudioAction = "continue"
)

// Studio applies AI writing assists to documents. Every assist snapshots the
// current content into version history first, so an unwanted result is always
// one restore away.
type Studio struct {
	store   *store.Store
	gateway *gateway.Client
	logger  infra.Logger
	model   string
}

// NewStudio wires the writing studio orchestrator.
func NewStudio(deps Deps) *Studio {
	return &Studio{store: deps.Store, gateway: deps.Gateway, logger: deps.Logger, model: deps.Models.Text}
}

// Apply runs one assist against the document and commits the result. Continue
// is premium-only; assists do not consume the generation quota.
func (s *Studio) Apply(ctx context.Context, userID, docID string, action StudioAction) (domain.StudioDocument, error) {
	user, err := activeUser(s.store, userID)
	if err != nil {
		return domain.StudioDocument{}, err
	}
	if action == StudioActionContinue {
		if err := policy.RequirePremium(user, policy.FeatureContinueWriting); err != nil {
			return domain.StudioDocument{}, denialErr(err)
		}
	}

	doc, ok := s.store.DocumentByID(docID)
	if !ok {
		return domain.StudioDocument{}, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	if doc.UserID != user.ID {
		return domain.StudioDocument{}, fmt.Errorf("document %s: %w", docID, domain.ErrForbidden)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return domain.StudioDocument{}, fmt.Errorf("document is empty: %w", domain.ErrInvalidInput)
	}

	prompt, err := studioPrompt(action, doc.Content)
	if err != nil {
		return domain.StudioDocument{}, err
	}
	result, err := s.gateway.GenerateContent(ctx, s.model, gateway.ContentPayload{Contents: prompt})
	if err != nil {
		return domain.StudioDocument{}, providerErr(string(action), err)
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		return domain.StudioDocument{}, providerErr(string(action), fmt.Errorf("empty result"))
	}

	s.SnapshotVersion(user, docID)
	s.store.MutateDocument(docID, func(d *domain.StudioDocument) {
		if action == StudioActionContinue {
			d.Content = d.Content + "\n\n" + text
		} else {
			d.Content = text
		}
		d.Recount()
		d.LastModified = s.store.Now()
	})

	s.store.LogActivity(user, "Used Writing Studio", string(action)+": "+doc.Title)
	updated, _ := s.store.DocumentByID(docID)
	return updated, nil
}

// SnapshotVersion pushes the current content onto the version history, newest
// first, evicting the oldest snapshot past the user's retention limit.
func (s *Studio) SnapshotVersion(user domain.User, docID string) {
	limit := policy.VersionHistoryLimit(user)
	now := s.store.Now()
	s.store.MutateDocument(docID, func(d *domain.StudioDocument) {
		d.VersionHistory = append([]domain.DocumentVersion{{Content: d.Content, Date: now}}, d.VersionHistory...)
		if limit > 0 && len(d.VersionHistory) > limit {
			d.VersionHistory = d.VersionHistory[:limit]
		}
	})
}

// RestoreVersion swaps the document content for a retained snapshot. The
// pre-restore content is snapshotted first so the restore itself is undoable.
func (s *Studio) RestoreVersion(userID, docID string, version int) (domain.StudioDocument, error) {
	user, err := activeUser(s.store, userID)
	if err != nil {
		return domain.StudioDocument{}, err
	}
	doc, ok := s.store.DocumentByID(docID)
	if !ok {
		return domain.StudioDocument{}, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	if doc.UserID != user.ID {
		return domain.StudioDocument{}, fmt.Errorf("document %s: %w", docID, domain.ErrForbidden)
	}
	if version < 0 || version >= len(doc.VersionHistory) {
		return domain.StudioDocument{}, fmt.Errorf("version %d: %w", version, domain.ErrInvalidInput)
	}
	restored := doc.VersionHistory[version].Content

	s.SnapshotVersion(user, docID)
	s.store.MutateDocument(docID, func(d *domain.StudioDocument) {
		d.Content = restored
		d.Recount()
		d.LastModified = s.store.Now()
	})
	updated, _ := s.store.DocumentByID(docID)
	return updated, nil
}

func studioPrompt(action StudioAction, content string) (string, error) {
	switch action {
	case StudioActionRewrite:
		return "Rewrite the following text to improve clarity and flow. Return only the rewritten text.\n\n" + content, nil
	case StudioActionSummarize:
		return "Summarize the following text concisely. Return only the summary.\n\n" + content, nil
	case StudioActionExpand:
		return "Expand the following text with more detail while keeping its voice. Return only the expanded text.\n\n" + content, nil
	case StudioActionProofread:
		return "Fix grammar, spelling and punctuation in the following text without changing its meaning. Return only the corrected text.\n\n" + content, nil
	case StudioActionContinue:
		return "Continue the following text in the same voice and style. Return only the continuation.\n\n" + content, nil
	default:
		return "", fmt.Errorf("unknown studio action %q: %w", action, domain.ErrInvalidInput)
	}
}
