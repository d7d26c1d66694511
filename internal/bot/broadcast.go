package bot

import (
	"context"
	"fmt"

	"goldbot/internal/command"
	"goldbot/internal/services"
)

// captureBroadcast stores the armed broadcast's payload message and shows a
// preview with submit/cancel controls. The bookkeeping survives until
// submit, cancel, or another flow takes over.
func (r *Router) captureBroadcast(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	sess.BroadcastMessageID = u.MessageID
	sess.BroadcastChatID = u.ChatID
	// Awaiting is over but the correlating ids must outlive the mode.
	sess.Mode = services.ModeIdle

	if _, err := r.T.CopyMessage(ctx, Chat(u.UserID), Chat(u.UserID), u.MessageID); err != nil {
		return err
	}
	controlID, err := r.T.SendMessage(ctx, Chat(u.UserID), msgBroadcastPreview, [][]Button{
		{
			{Text: msgSubmitButton, Data: command.Encode(command.BroadcastSubmit{MessageID: u.MessageID})},
			{Text: msgCancelButton, Data: command.Encode(command.BroadcastCancel{MessageID: u.MessageID})},
		},
	})
	if err != nil {
		return err
	}
	sess.BroadcastControlID = controlID
	return nil
}

func (r *Router) onBroadcastSubmit(ctx context.Context, u Update, messageID int) error {
	sess := r.Sessions.Get(u.UserID)
	if sess.BroadcastMessageID == 0 || sess.BroadcastMessageID != messageID {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	}

	sent, failed, err := r.Broadcast.Send(ctx, sess.BroadcastChatID, messageID)
	if err != nil {
		return err
	}

	if sess.BroadcastControlID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), sess.BroadcastControlID)
	}
	sess.Enter(services.ModeIdle)

	if err := r.T.AnswerCallback(ctx, u.CallbackID, msgBroadcastSent, false); err != nil {
		return err
	}
	_, err = r.T.SendMessage(ctx, Chat(u.UserID),
		fmt.Sprintf("Delivered to %d collaborators, %d failed.", sent, failed), nil)
	return err
}

func (r *Router) onBroadcastCancel(ctx context.Context, u Update, messageID int) error {
	sess := r.Sessions.Get(u.UserID)
	if sess.BroadcastMessageID == 0 || sess.BroadcastMessageID != messageID {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	}
	if sess.BroadcastControlID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), sess.BroadcastControlID)
	}
	sess.Enter(services.ModeIdle)

	if err := r.T.AnswerCallback(ctx, u.CallbackID, msgCancelled, false); err != nil {
		return err
	}
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgCancelled, nil)
	return err
}
