package bot

import (
	"context"

	"goldbot/internal/command"
	"goldbot/internal/services"
)

// handlePhoto starts (or restarts) the authoring flow. A photo from any
// state supersedes the previous draft. Non-operators' photos are ignored.
func (r *Router) handlePhoto(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	if sess.Mode == services.ModeAwaitBroadcast {
		return r.captureBroadcast(ctx, u)
	}

	_, ok, err := r.admin(u.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	_ = r.T.React(ctx, Chat(u.UserID), u.MessageID, "🔥")

	d := r.Workflow.StartDraft(u.UserID, u.PhotoRef)
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), msgPhotoReceived, [][]Button{
		{{Text: msgCancelButton, Data: command.Encode(command.Cancel{DraftID: d.ID})}},
	})
	return err
}

// handleText feeds a plain text message to whichever flow is awaiting input.
func (r *Router) handleText(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	switch sess.Mode {
	case services.ModeAwaitCaption:
		return r.captionInput(ctx, u)
	case services.ModeAwaitWeight:
		return r.weightInput(ctx, u)
	case services.ModeAwaitOverrideValue:
		return r.overrideValueInput(ctx, u)
	case services.ModeAwaitBroadcast:
		return r.captureBroadcast(ctx, u)
	}
	return nil
}

func (r *Router) captionInput(ctx context.Context, u Update) error {
	d, ok := r.Workflow.SubmitCaption(u.UserID, u.Text)
	if !ok {
		return nil
	}
	_ = r.T.React(ctx, Chat(u.UserID), u.MessageID, "✍")
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgCaptionReceived, [][]Button{
		{{Text: msgCancelButton, Data: command.Encode(command.Cancel{DraftID: d.ID})}},
	})
	return err
}

func (r *Router) weightInput(ctx context.Context, u Update) error {
	d, err := r.Workflow.SubmitWeight(u.UserID, u.Text)
	if err == services.ErrBadWeight {
		_, serr := r.T.SendMessage(ctx, Chat(u.UserID), msgWeightInvalid, nil)
		return serr
	}
	if err != nil {
		return nil // no live draft; stale input
	}
	_ = r.T.React(ctx, Chat(u.UserID), u.MessageID, "🏆")
	return r.showPreview(ctx, u.UserID, d)
}

// showPreview renders the draft exactly like the eventual channel post,
// with a separate finalize/cancel control message.
func (r *Router) showPreview(ctx context.Context, userID int64, d *services.Draft) error {
	previewID, err := r.T.SendPhoto(ctx, Chat(userID), d.PhotoRef, d.Caption, [][]Button{
		{{Text: msgPriceNowButton, Data: command.Encode(command.PreviewPrice{DraftID: d.ID})}},
	})
	if err != nil {
		return err
	}
	controlID, err := r.T.SendMessage(ctx, Chat(userID), msgPreviewReady, [][]Button{
		{
			{Text: msgPublishButton, Data: command.Encode(command.Finalize{DraftID: d.ID})},
			{Text: msgCancelButton, Data: command.Encode(command.Cancel{DraftID: d.ID})},
		},
	})
	if err != nil {
		return err
	}
	r.Workflow.PreviewShown(userID, previewID, controlID)
	return nil
}
