package services

import (
	"context"

	"goldbot/internal/command"
	"goldbot/internal/domain"
	applog "goldbot/internal/log"
	"goldbot/internal/repos"
)

// ChannelPoster is the narrow slice of the chat transport the coordinator
// needs: emit a photo post with one priced button, rewrite that button, and
// take a post down again.
type ChannelPoster interface {
	PostPhoto(ctx context.Context, channelID, photoRef, caption, buttonData string) (int, error)
	UpdateButton(ctx context.Context, channelID string, messageID int, buttonData string) error
	Delete(ctx context.Context, channelID string, messageID int) error
}

// PublishResult reports a finalize. MarkupUpdated == false means the post
// went out and the row exists, but its button still carries the pending
// token; the operator must be told, not silently retried.
type PublishResult struct {
	Set           domain.GoldSet
	MarkupUpdated bool
}

// PublishService turns a previewed draft into a published set with
// at-most-once semantics: the draft id is re-validated before any side
// effect, and a failure mid-sequence never leaves a dangling channel post.
type PublishService struct {
	Workflow *WorkflowService
	Sets     *repos.GoldSetRepo
	Poster   ChannelPoster
}

func NewPublishService(wf *WorkflowService, sets *repos.GoldSetRepo, poster ChannelPoster) *PublishService {
	return &PublishService{Workflow: wf, Sets: sets, Poster: poster}
}

func (s *PublishService) Finalize(ctx context.Context, userID int64, draftID, channelID string) (PublishResult, error) {
	// Double-click or stale button: reject before any side effect.
	draft, err := s.Workflow.FinalizableDraft(userID, draftID)
	if err != nil {
		return PublishResult{}, err
	}

	pending := command.Encode(command.ChannelPrice{Ref: command.PendingRef})
	msgID, err := s.Poster.PostPhoto(ctx, channelID, draft.PhotoRef, draft.Caption, pending)
	if err != nil {
		return PublishResult{}, err
	}

	setID, err := s.Sets.Create(channelID, msgID, draft.Weight, draft.Caption)
	if err != nil {
		// Take the post down so no orphan ends up in the channel; the
		// draft stays previewable for a retry.
		if derr := s.Poster.Delete(ctx, channelID, msgID); derr != nil {
			applog.Error(userID, "publish.rollback", derr, map[string]any{"channel": channelID, "msg": msgID})
		}
		return PublishResult{}, err
	}

	markupUpdated := true
	if err := s.Poster.UpdateButton(ctx, channelID, msgID, command.ChannelPriceRef(setID)); err != nil {
		applog.Error(userID, "publish.button_update", err, map[string]any{"set": setID})
		markupUpdated = false
	}

	s.Workflow.ClearDraft(userID, draftID)

	set, err := s.Sets.Get(setID)
	if err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Set: set, MarkupUpdated: markupUpdated}, nil
}
