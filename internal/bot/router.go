package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	applog "goldbot/internal/log"
	"goldbot/internal/repos"
	"goldbot/internal/services"
)

// Router owns the bot side of the system: it decodes inbound updates,
// consults per-user session state, and drives the services. One update is
// handled at a time per process; session access is scoped by user id.
type Router struct {
	T Transport

	Sessions  services.SessionStore
	Workflow  *services.WorkflowService
	Publish   *services.PublishService
	Pricing   *services.PricingService
	Spot      *services.SpotPriceService
	Broadcast *services.BroadcastService
	Analytics *services.AnalyticsService
	Tokens    *services.TokenService

	Access *repos.AccessRepo
	Sets   *repos.GoldSetRepo
}

// Dispatch routes one update. Unexpected failures are logged and answered
// with a generic message; nothing a single user sends can take the process
// down.
func (r *Router) Dispatch(ctx context.Context, u Update) {
	defer func() {
		if p := recover(); p != nil {
			applog.Error(u.UserID, "bot.panic", fmt.Errorf("%v", p), nil)
		}
	}()
	if u.UserID == 0 {
		return
	}

	var err error
	switch {
	case u.CallbackData != "":
		err = r.handleCallback(ctx, u)
	// Published posts are photo posts, so a forwarded one carries both a
	// photo and a forward origin; the forward must win or the override
	// menu could never be reached.
	case u.ForwardChannelID != "":
		err = r.handleForward(ctx, u)
	case u.PhotoRef != "":
		err = r.handlePhoto(ctx, u)
	case strings.HasPrefix(u.Text, "/"):
		err = r.handleCommand(ctx, u)
	case u.Text != "":
		err = r.handleText(ctx, u)
	}
	if err != nil {
		applog.Error(u.UserID, "bot.dispatch", err, map[string]any{"update": u.ID})
		_, _ = r.T.SendMessage(ctx, Chat(u.UserID), msgGeneric, nil)
	}
}

// isAdmin reports whether the user operates a channel; the zero Admin means
// no.
func (r *Router) admin(userID int64) (chID string, ok bool, err error) {
	a, err := r.Access.Admin(userID)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return a.ChannelID, true, nil
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
