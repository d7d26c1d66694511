package bot

import (
	"context"
	"fmt"
	"time"

	"goldbot/internal/command"
	applog "goldbot/internal/log"
	"goldbot/internal/services"
	"goldbot/internal/validate"
)

// handleCallback decodes the button payload once and dispatches on the
// command type. Unrecognized payloads are dropped silently.
func (r *Router) handleCallback(ctx context.Context, u Update) error {
	cmd, ok := command.Parse(u.CallbackData)
	if !ok {
		return nil
	}
	switch c := cmd.(type) {
	case command.PreviewPrice:
		return r.onPreviewPrice(ctx, u, c.DraftID)
	case command.Finalize:
		return r.onFinalize(ctx, u, c.DraftID)
	case command.Cancel:
		return r.onCancel(ctx, u, c.DraftID)
	case command.ChannelPrice:
		return r.onChannelPrice(ctx, u, c)
	case command.BroadcastSubmit:
		return r.onBroadcastSubmit(ctx, u, c.MessageID)
	case command.BroadcastCancel:
		return r.onBroadcastCancel(ctx, u, c.MessageID)
	case command.EditPricing:
		return r.onEditPricing(ctx, u, c)
	case command.ResetPricing:
		return r.onResetPricing(ctx, u, c.SetID)
	case command.DeleteCollaborator:
		return r.onDeleteCollaborator(ctx, u, c.UserID)
	}
	return nil
}

// onPreviewPrice answers a live quote for the draft in preview. The draft is
// not mutated and no view is recorded.
func (r *Router) onPreviewPrice(ctx context.Context, u Update, draftID string) error {
	d, err := r.Workflow.LiveDraft(u.UserID, draftID)
	if err != nil || d.Weight == 0 {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	}
	channelID, ok, err := r.admin(u.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgNoChannel, false)
	}

	rp, err := r.Pricing.ResolveChannel(channelID)
	if err != nil {
		return err
	}
	_, err = r.answerQuote(ctx, u, d.Weight, rp)
	return err
}

// onChannelPrice answers a live quote for a published set and records the
// view.
func (r *Router) onChannelPrice(ctx context.Context, u Update, c command.ChannelPrice) error {
	setID, ok := c.SetID()
	if !ok {
		// The post still carries its pending token; the follow-up
		// button update never landed.
		return r.T.AnswerCallback(ctx, u.CallbackID, msgSetNotFound, true)
	}
	set, err := r.Sets.Get(setID)
	if err != nil {
		if isNoRows(err) {
			return r.T.AnswerCallback(ctx, u.CallbackID, msgSetNotFound, true)
		}
		return err
	}

	rp, err := r.Pricing.ResolveForSet(set)
	if err != nil {
		return err
	}
	shown, err := r.answerQuote(ctx, u, set.Weight, rp)
	if err != nil {
		return err
	}
	// A failed fetch answered with an apology is not a view.
	if !shown {
		return nil
	}
	if err := r.Sets.LogPriceCheck(u.UserID, set.ID, time.Now()); err != nil {
		applog.Error(u.UserID, "pricecheck.log", err, map[string]any{"set": set.ID})
	}
	return nil
}

// answerQuote runs the resolve -> spot -> calculate chain and answers an
// alert popup. A price-fetch failure surfaces as one message and goes no
// further; shown reports whether a price actually reached the viewer.
func (r *Router) answerQuote(ctx context.Context, u Update, weight float64, rp services.ResolvedPricing) (shown bool, err error) {
	spot, err := r.Spot.Price(ctx)
	if err != nil {
		applog.Error(u.UserID, "spot.price", err, nil)
		return false, r.T.AnswerCallback(ctx, u.CallbackID, msgPriceFetchFailed, true)
	}
	q := r.Pricing.QuoteAt(weight, spot, rp, time.Now())

	collab, err := r.Access.IsCollaborator(u.UserID)
	if err != nil {
		return false, err
	}
	text := pricePopupCustomer(q)
	if collab {
		text = pricePopupCollab(q)
	}
	return true, r.T.AnswerCallback(ctx, u.CallbackID, text, true)
}

// onFinalize publishes the previewed draft. On failure the draft survives
// for a retry; a stale or doubled click answers "expired".
func (r *Router) onFinalize(ctx context.Context, u Update, draftID string) error {
	channelID, ok, err := r.admin(u.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgNoChannel, false)
	}

	// Peek at the draft before publishing so the control message can be
	// cleaned up afterwards; Finalize clears the session on success.
	d, err := r.Workflow.LiveDraft(u.UserID, draftID)
	if err != nil {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	}
	controlID := d.ControlMessageID

	res, err := r.Publish.Finalize(ctx, u.UserID, draftID, channelID)
	switch {
	case err == services.ErrDraftExpired || err == services.ErrDraftIncomplete:
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	case err != nil:
		applog.Error(u.UserID, "publish.finalize", err, nil)
		return r.T.AnswerCallback(ctx, u.CallbackID, msgGeneric, true)
	}

	if controlID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), controlID)
	}
	applog.Info(u.UserID, "publish.done", map[string]any{"set": res.Set.ID, "markup_updated": res.MarkupUpdated})

	// "published" and "published but the follow-up update failed" must
	// stay distinguishable to the operator.
	if !res.MarkupUpdated {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgPublishedNoButton, true)
	}
	return r.T.AnswerCallback(ctx, u.CallbackID, msgPublished, false)
}

// onCancel discards the draft and cleans up its preview messages. A second
// press is a no-op answering "expired".
func (r *Router) onCancel(ctx context.Context, u Update, draftID string) error {
	d, err := r.Workflow.Cancel(u.UserID, draftID)
	if err != nil {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgExpired, false)
	}
	if d.PreviewMessageID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), d.PreviewMessageID)
	}
	if d.ControlMessageID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), d.ControlMessageID)
	}
	if err := r.T.AnswerCallback(ctx, u.CallbackID, msgCancelled, false); err != nil {
		return err
	}
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), msgCancelled, nil)
	return err
}

// onEditPricing arms the awaiting-override-value state for one field.
func (r *Router) onEditPricing(ctx context.Context, u Update, c command.EditPricing) error {
	if _, ok, err := r.admin(u.UserID); err != nil {
		return err
	} else if !ok {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgNotAdmin, false)
	}
	field, ok := validate.PricingField(c.Field)
	if !ok {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgGeneric, false)
	}
	sess := r.Sessions.Get(u.UserID)
	menuID := sess.EditMenuMessageID
	sess.Enter(services.ModeAwaitOverrideValue)
	sess.EditingSetID = c.SetID
	sess.EditingField = field
	sess.EditMenuMessageID = menuID

	if err := r.T.AnswerCallback(ctx, u.CallbackID, "", false); err != nil {
		return err
	}
	prompt := fmt.Sprintf("Send the new percentage (0-100) for %q.", fieldLabels[field])
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), prompt, nil)
	return err
}

// onResetPricing nulls all six overrides atomically.
func (r *Router) onResetPricing(ctx context.Context, u Update, setID int64) error {
	if _, ok, err := r.admin(u.UserID); err != nil {
		return err
	} else if !ok {
		return r.T.AnswerCallback(ctx, u.CallbackID, msgNotAdmin, false)
	}
	if err := r.Sets.ResetOverrides(setID); err != nil {
		return err
	}
	if u.MessageID != 0 {
		_ = r.T.DeleteMessage(ctx, Chat(u.UserID), u.MessageID)
	}
	if err := r.T.AnswerCallback(ctx, u.CallbackID, "", false); err != nil {
		return err
	}
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgOverridesReset, nil)
	return err
}

func (r *Router) onDeleteCollaborator(ctx context.Context, u Update, collabID int64) error {
	if _, ok, err := r.admin(u.UserID); err != nil || !ok {
		if err != nil {
			return err
		}
		return r.T.AnswerCallback(ctx, u.CallbackID, msgNotAdmin, false)
	}
	if err := r.Access.DeleteCollaborator(collabID); err != nil {
		return err
	}
	return r.T.AnswerCallback(ctx, u.CallbackID, "Collaborator removed.", false)
}
