package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	applog "goldbot/internal/log"
	"goldbot/internal/services"
	"goldbot/internal/validate"
)

// handleCommand parses "/cmd args..." and dispatches. Everything except
// /start and /setchannel requires an operator.
func (r *Router) handleCommand(ctx context.Context, u Update) error {
	fields := strings.Fields(u.Text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i] // strip the @botname suffix of group commands
	}
	args := fields[1:]

	switch cmd {
	case "start":
		return r.cmdStart(ctx, u, args)
	case "setchannel":
		return r.cmdSetChannel(ctx, u)
	}

	channelID, ok, err := r.admin(u.UserID)
	if err != nil {
		return err
	}
	if !ok {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgNotAdmin, nil)
		return err
	}

	switch cmd {
	case "help":
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgHelp, nil)
		return err
	case "settax":
		return r.cmdSetPercent(ctx, u, channelID, "Tax", args)
	case "setfee":
		return r.cmdSetPercent(ctx, u, channelID, "LaborFee", args)
	case "setprofit":
		return r.cmdSetPercent(ctx, u, channelID, "SellingProfit", args)
	case "viewpricing":
		return r.cmdViewPricing(ctx, u, channelID)
	case "hamkar":
		return r.cmdInvite(ctx, u, services.TokenTypeCollab, "")
	case "addadmin":
		return r.cmdInvite(ctx, u, services.TokenTypeAdmin, channelID)
	case "listhamkar":
		return r.cmdListCollaborators(ctx, u)
	case "pmhamkar":
		return r.cmdArmBroadcast(ctx, u)
	case "amar":
		return r.cmdStats(ctx, u, channelID)
	}
	return nil // unknown command, ignore
}

// cmdStart greets by role, or redeems a deep-link invite token
// (collab-<token> / admin-<token>).
func (r *Router) cmdStart(ctx context.Context, u Update, args []string) error {
	if len(args) == 1 {
		if token, ok := strings.CutPrefix(args[0], "collab-"); ok {
			return r.redeemCollab(ctx, u, token)
		}
		if token, ok := strings.CutPrefix(args[0], "admin-"); ok {
			return r.redeemAdmin(ctx, u, token)
		}
	}

	text := msgWelcome
	if _, ok, err := r.admin(u.UserID); err != nil {
		return err
	} else if ok {
		text = msgWelcomeAdmin
	} else if collab, err := r.Access.IsCollaborator(u.UserID); err != nil {
		return err
	} else if collab {
		text = msgWelcomeCollab
	}
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), text, nil)
	return err
}

func (r *Router) redeemCollab(ctx context.Context, u Update, token string) error {
	if collab, err := r.Access.IsCollaborator(u.UserID); err != nil {
		return err
	} else if collab {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgAlreadyCollab, nil)
		return err
	}

	t, err := r.Tokens.Redeem(token)
	if err == services.ErrTokenInvalid || (err == nil && t.Type != services.TokenTypeCollab) {
		_, serr := r.T.SendMessage(ctx, Chat(u.UserID), msgTokenInvalid, nil)
		return serr
	}
	if err != nil {
		return err
	}
	if err := r.Access.UpsertCollaborator(u.UserID, u.Username); err != nil {
		return err
	}
	applog.Info(u.UserID, "collab.registered", nil)
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), msgCollabRegistered, nil)
	return err
}

func (r *Router) redeemAdmin(ctx context.Context, u Update, token string) error {
	t, err := r.Tokens.Redeem(token)
	if err == services.ErrTokenInvalid || (err == nil && (t.Type != services.TokenTypeAdmin || t.ChannelID == "")) {
		_, serr := r.T.SendMessage(ctx, Chat(u.UserID), msgTokenInvalid, nil)
		return serr
	}
	if err != nil {
		return err
	}

	if ch, ok, err := r.admin(u.UserID); err != nil {
		return err
	} else if ok && ch == t.ChannelID {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgAlreadyAdmin, nil)
		return err
	}

	if err := r.Access.UpsertAdmin(u.UserID, t.ChannelID, u.Username); err != nil {
		return err
	}
	// Operators also get collaborator pricing.
	if err := r.Access.UpsertCollaborator(u.UserID, u.Username); err != nil {
		return err
	}
	applog.Info(u.UserID, "admin.registered", map[string]any{"channel": t.ChannelID})
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), msgAdminRegistered, nil)
	return err
}

func (r *Router) cmdSetChannel(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	sess.Enter(services.ModeAwaitChannelForward)
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgSetChannelInstructions, nil)
	return err
}

// cmdSetPercent handles /settax, /setfee and /setprofit:
// <customer|collab> <percent 0..100>.
func (r *Router) cmdSetPercent(ctx context.Context, u Update, channelID, suffix string, args []string) error {
	usage := fmt.Sprintf("Usage: /set%s <customer|collab> <percent>", strings.ToLower(suffix))
	if len(args) != 2 {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), usage, nil)
		return err
	}
	class, ok := validate.ViewerClass(args[0])
	if !ok {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgInvalidViewerClass, nil)
		return err
	}
	frac, ok := validate.Percent(args[1])
	if !ok {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgInvalidPercent, nil)
		return err
	}

	field := class + suffix
	if err := r.Pricing.Configs.UpdateField(channelID, field, frac); err != nil {
		return err
	}
	applog.Info(u.UserID, "config.update", map[string]any{"channel": channelID, "field": field, "value": frac})
	_, err := r.T.SendMessage(ctx, Chat(u.UserID),
		fmt.Sprintf("%s set to %d%%.", fieldLabels[field], pct(frac)), nil)
	return err
}

func (r *Router) cmdViewPricing(ctx context.Context, u Update, channelID string) error {
	rp, err := r.Pricing.ResolveChannel(channelID)
	if err != nil {
		return err
	}
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), viewPricingText(rp), nil)
	return err
}

func (r *Router) cmdInvite(ctx context.Context, u Update, tokenType, channelID string) error {
	token, err := r.Tokens.Issue(tokenType, u.UserID, channelID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s-%s", r.T.Username(), tokenType, token)
	text := "Collaborator invite link:\n\n" + link
	if tokenType == services.TokenTypeAdmin {
		text = "Operator invite link (one-time use):\n\n" + link
	}
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), text, nil)
	return err
}

func (r *Router) cmdListCollaborators(ctx context.Context, u Update) error {
	collabs, err := r.Access.Collaborators()
	if err != nil {
		return err
	}
	if len(collabs) == 0 {
		_, err := r.T.SendMessage(ctx, Chat(u.UserID), "No collaborators yet.", nil)
		return err
	}

	var b strings.Builder
	var kb [][]Button
	fmt.Fprintf(&b, "Collaborators (%d):\n", len(collabs))
	for i, c := range collabs {
		name := c.Username
		if name == "" {
			name = fmt.Sprintf("user %d", c.UserID)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		kb = append(kb, []Button{{
			Text: fmt.Sprintf("%s %s", msgDeleteButton, name),
			Data: fmt.Sprintf("delham:%d", c.UserID),
		}})
	}
	_, err = r.T.SendMessage(ctx, Chat(u.UserID), b.String(), kb)
	return err
}

func (r *Router) cmdArmBroadcast(ctx context.Context, u Update) error {
	sess := r.Sessions.Get(u.UserID)
	sess.Enter(services.ModeAwaitBroadcast)
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), msgBroadcastInstructions, nil)
	return err
}

// cmdStats replies with the channel's top viewed sets for the last day,
// week and month.
func (r *Router) cmdStats(ctx context.Context, u Update, channelID string) error {
	now := time.Now()
	ranges := []struct {
		name string
		from time.Time
	}{
		{"Last 24 hours", now.Add(-24 * time.Hour)},
		{"Last 7 days", now.AddDate(0, 0, -7)},
		{"Last 30 days", now.AddDate(0, 0, -30)},
	}

	var b strings.Builder
	b.WriteString("View statistics\n")
	for _, rng := range ranges {
		top, err := r.Analytics.TopViewed(channelID, rng.from, now, 5)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\n%s:\n", rng.name)
		if len(top) == 0 {
			b.WriteString("  no views\n")
			continue
		}
		for i, s := range top {
			caption := s.Caption
			if caption == "" {
				caption = fmt.Sprintf("set #%d", s.SetID)
			}
			fmt.Fprintf(&b, "  %d. %s — %d views\n", i+1, caption, s.Views)
		}
	}
	_, err := r.T.SendMessage(ctx, Chat(u.UserID), b.String(), nil)
	return err
}
