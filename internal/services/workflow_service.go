package services

import (
	"errors"

	"goldbot/internal/validate"

	"github.com/google/uuid"
)

var (
	// ErrDraftExpired means a button referenced a draft id that is no
	// longer the session's live draft. All action for it is a no-op.
	ErrDraftExpired = errors.New("draft expired")

	// ErrBadWeight is a recoverable validation failure; the state does
	// not advance and the operator may resubmit.
	ErrBadWeight = errors.New("invalid weight")

	// ErrDraftIncomplete guards finalize: photo, caption and weight must
	// all be present.
	ErrDraftIncomplete = errors.New("draft incomplete")
)

// WorkflowService drives the authoring state machine:
// Empty -> AwaitingCaption -> AwaitingWeight -> Previewing -> Finalized/Cancelled.
// It owns session drafts; pricing and publication are other services.
type WorkflowService struct {
	Sessions SessionStore
}

func NewWorkflowService(sessions SessionStore) *WorkflowService {
	return &WorkflowService{Sessions: sessions}
}

// StartDraft begins a fresh draft from a submitted photo. A photo from any
// state supersedes the previous draft silently (last-photo-wins).
func (s *WorkflowService) StartDraft(userID int64, photoRef string) *Draft {
	sess := s.Sessions.Get(userID)
	d := &Draft{ID: uuid.NewString(), PhotoRef: photoRef}
	sess.Draft = d
	sess.Enter(ModeAwaitCaption)
	return d
}

// SubmitCaption stores the caption verbatim (empty is a valid caption) and
// advances to the weight prompt. Returns false when no caption is awaited.
func (s *WorkflowService) SubmitCaption(userID int64, caption string) (*Draft, bool) {
	sess := s.Sessions.Get(userID)
	if sess.Mode != ModeAwaitCaption || sess.Draft == nil {
		return nil, false
	}
	sess.Draft.Caption = caption
	sess.Draft.CaptionSet = true
	sess.Enter(ModeAwaitWeight)
	return sess.Draft, true
}

// SubmitWeight validates the weight input; on success the draft enters
// Previewing. On ErrBadWeight the state does not advance.
func (s *WorkflowService) SubmitWeight(userID int64, input string) (*Draft, error) {
	sess := s.Sessions.Get(userID)
	if sess.Mode != ModeAwaitWeight || sess.Draft == nil {
		return nil, ErrDraftExpired
	}
	w, ok := validate.Weight(input)
	if !ok {
		return nil, ErrBadWeight
	}
	sess.Draft.Weight = w
	sess.Enter(ModePreview)
	return sess.Draft, nil
}

// PreviewShown records the preview/control message ids for later cleanup.
func (s *WorkflowService) PreviewShown(userID int64, previewMsgID, controlMsgID int) {
	sess := s.Sessions.Get(userID)
	if sess.Draft != nil {
		sess.Draft.PreviewMessageID = previewMsgID
		sess.Draft.ControlMessageID = controlMsgID
	}
}

// LiveDraft returns the session's draft iff draftID matches it and the draft
// is previewable. The id check is what makes stale buttons harmless.
func (s *WorkflowService) LiveDraft(userID int64, draftID string) (*Draft, error) {
	sess := s.Sessions.Get(userID)
	d := sess.Draft
	if d == nil || d.ID != draftID {
		return nil, ErrDraftExpired
	}
	return d, nil
}

// FinalizableDraft is LiveDraft plus the completeness invariant.
func (s *WorkflowService) FinalizableDraft(userID int64, draftID string) (*Draft, error) {
	d, err := s.LiveDraft(userID, draftID)
	if err != nil {
		return nil, err
	}
	if d.PhotoRef == "" || !d.CaptionSet || d.Weight == 0 {
		return nil, ErrDraftIncomplete
	}
	return d, nil
}

// Cancel discards the draft. A second cancel for the same id reports
// expired; the caller gets the dropped draft back for message cleanup.
func (s *WorkflowService) Cancel(userID int64, draftID string) (*Draft, error) {
	d, err := s.LiveDraft(userID, draftID)
	if err != nil {
		return nil, err
	}
	sess := s.Sessions.Get(userID)
	sess.Draft = nil
	sess.Enter(ModeIdle)
	return d, nil
}

// ClearDraft drops the draft after a successful publish.
func (s *WorkflowService) ClearDraft(userID int64, draftID string) {
	sess := s.Sessions.Get(userID)
	if sess.Draft != nil && sess.Draft.ID == draftID {
		sess.Draft = nil
		sess.Enter(ModeIdle)
	}
}
