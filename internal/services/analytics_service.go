package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goldbot/internal/domain"
	applog "goldbot/internal/log"
	"goldbot/internal/repos"
)

// ReportSender delivers a formatted report to one admin's private chat.
type ReportSender interface {
	SendReport(ctx context.Context, userID int64, text string) error
}

// AnalyticsService answers "top N sets by view count" and pushes the daily
// digest to channel admins.
type AnalyticsService struct {
	Sets   *repos.GoldSetRepo
	Access *repos.AccessRepo
	Sender ReportSender
	now    func() time.Time
}

func NewAnalyticsService(sets *repos.GoldSetRepo, access *repos.AccessRepo, sender ReportSender) *AnalyticsService {
	return &AnalyticsService{Sets: sets, Access: access, Sender: sender, now: time.Now}
}

func (s *AnalyticsService) TopViewed(channelID string, from, to time.Time, limit int) ([]domain.SetViews, error) {
	return s.Sets.TopViewed(channelID, from, to, limit)
}

// Start runs the daily report loop until ctx is cancelled. Fires once per
// day at midnight UTC.
func (s *AnalyticsService) Start(ctx context.Context) {
	go func() {
		for {
			next := s.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
			select {
			case <-ctx.Done():
				return
			case <-time.After(next.Sub(s.now())):
			}
			if err := s.DailyReport(ctx); err != nil {
				applog.Error(0, "analytics.daily", err, nil)
			}
		}
	}()
	applog.Info(0, "analytics.started", nil)
}

// DailyReport sends each channel's top viewed sets of the last 24h to its
// admins. Channels without views are skipped.
func (s *AnalyticsService) DailyReport(ctx context.Context) error {
	to := s.now()
	from := to.Add(-24 * time.Hour)

	channels, err := s.Access.Channels()
	if err != nil {
		return err
	}
	for _, ch := range channels {
		top, err := s.TopViewed(ch, from, to, 10)
		if err != nil {
			applog.Error(0, "analytics.query", err, map[string]any{"channel": ch})
			continue
		}
		if len(top) == 0 {
			continue
		}
		text := FormatReport(from, top)

		admins, err := s.Access.ChannelAdmins(ch)
		if err != nil {
			applog.Error(0, "analytics.admins", err, map[string]any{"channel": ch})
			continue
		}
		for _, a := range admins {
			if err := s.Sender.SendReport(ctx, a.UserID, text); err != nil {
				applog.Error(a.UserID, "analytics.send", err, nil)
			}
		}
	}
	return nil
}

// FormatReport renders one day's top-viewed list.
func FormatReport(day time.Time, top []domain.SetViews) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report — %s\n\nMost viewed sets:\n", day.Format("2006-01-02"))
	for i, s := range top {
		caption := s.Caption
		if r := []rune(caption); len(r) > 50 {
			caption = string(r[:50]) + "…"
		}
		if caption == "" {
			caption = fmt.Sprintf("set #%d", s.SetID)
		}
		fmt.Fprintf(&b, "%d. %s — %d views\n", i+1, caption, s.Views)
	}
	return b.String()
}
