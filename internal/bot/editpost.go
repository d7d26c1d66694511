package bot

import (
	"context"
	"fmt"

	"goldbot/internal/command"
	"goldbot/internal/domain"
	"goldbot/internal/services"
	"goldbot/internal/validate"
)

// handleForward handles forwarded channel posts: either the /setchannel
// registration step, or opening the per-post pricing menu for a post the
// bot published.
func (r *Router) handleForward(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	if sess.Mode == services.ModeAwaitChannelForward {
		return r.bindChannel(ctx, u)
	}
	// An armed broadcast may well be a forwarded message.
	if sess.Mode == services.ModeAwaitBroadcast {
		return r.captureBroadcast(ctx, u)
	}

	if _, ok, err := r.admin(u.UserID); err != nil || !ok {
		return err
	}
	set, err := r.Sets.ByMessage(u.ForwardChannelID, u.ForwardMessageID)
	if err != nil {
		if isNoRows(err) {
			return nil // not one of ours
		}
		return err
	}
	return r.showOverrideMenu(ctx, u.UserID, set)
}

// bindChannel completes /setchannel from a forwarded post.
func (r *Router) bindChannel(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	sess.Enter(services.ModeIdle)

	if err := r.Access.UpsertAdmin(u.UserID, u.ForwardChannelID, u.Username); err != nil {
		return err
	}
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgChannelSet, nil)
	return err
}

// showOverrideMenu lists the six pricing fields with origin markers plus a
// reset row.
func (r *Router) showOverrideMenu(ctx context.Context, userID int64, set domain.GoldSet) error {
	rp, err := r.Pricing.ResolveForSet(set)
	if err != nil {
		return err
	}

	btn := func(field string) Button {
		return Button{
			Text: overrideLabel(field, rp.Field(field)),
			Data: command.Encode(command.EditPricing{SetID: set.ID, Field: field}),
		}
	}
	kb := [][]Button{
		{btn("customerTax"), btn("customerLaborFee")},
		{btn("customerSellingProfit"), btn("collabTax")},
		{btn("collabLaborFee"), btn("collabSellingProfit")},
		{{Text: msgResetButton, Data: command.Encode(command.ResetPricing{SetID: set.ID})}},
	}

	msgID, err := r.T.SendMessage(ctx, Chat(userID), msgOverrideMenu, kb)
	if err != nil {
		return err
	}
	sess := r.Sessions.Get(userID)
	sess.EditMenuMessageID = msgID
	return nil
}

// overrideValueInput consumes the percentage reply of an armed override
// edit. Validation failures keep the state armed for a resubmission.
func (r *Router) overrideValueInput(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)

	frac, ok := validate.Percent(u.Text)
	if !ok {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgInvalidPercent, nil)
		return err
	}

	setID, field := sess.EditingSetID, sess.EditingField
	if err := r.Sets.UpdateOverrideField(setID, field, frac); err != nil {
		return err
	}

	if sess.EditMenuMessageID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), sess.EditMenuMessageID)
	}
	sess.Enter(services.ModeIdle)

	_, err := r.T.SendMessage(ctx, Chat(u.UserID),
		fmt.Sprintf("%s set to %d%% for this post.", fieldLabels[field], pct(frac)), nil)
	return err
}
