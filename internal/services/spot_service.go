package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	applog "goldbot/internal/log"
	"goldbot/internal/repos"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// ErrSpotUnavailable means the upstream failed and no sample has ever been
// stored, so no price can be shown at all.
var ErrSpotUnavailable = errors.New("spot price unavailable")

// feedDoc is the upstream document; only one numeric field matters.
type feedDoc struct {
	Price *float64 `json:"price"`
}

// SpotPriceService caches the external unit price. Callers only see the
// cache: fresh sample -> hit; miss -> one coalesced upstream fetch; fetch
// failure -> newest sample of any age.
type SpotPriceService struct {
	Samples *repos.SampleRepo

	client  *resty.Client
	feedURL string
	ttl     time.Duration
	keep    int

	flight singleflight.Group
	now    func() time.Time
}

func NewSpotPriceService(samples *repos.SampleRepo, feedURL string, ttl time.Duration, keep int) *SpotPriceService {
	return &SpotPriceService{
		Samples: samples,
		client:  resty.New().SetTimeout(10 * time.Second),
		feedURL: feedURL,
		ttl:     ttl,
		keep:    keep,
		now:     time.Now,
	}
}

// Price returns the current spot price per gram.
func (s *SpotPriceService) Price(ctx context.Context) (float64, error) {
	if smp, err := s.Samples.LatestFresh(s.now()); err == nil {
		return smp.Price, nil
	} else if err != sql.ErrNoRows {
		return 0, err
	}

	// Concurrent misses share one upstream fetch.
	v, err, _ := s.flight.Do("spot", func() (any, error) {
		// A waiter that raced in behind the winner finds the fresh sample here.
		if smp, err := s.Samples.LatestFresh(s.now()); err == nil {
			return smp.Price, nil
		}
		price, err := s.fetch(ctx)
		if err != nil {
			return 0.0, err
		}
		fetched := s.now()
		if err := s.Samples.Insert(price, fetched, fetched.Add(s.ttl)); err != nil {
			return 0.0, err
		}
		if err := s.Samples.Prune(s.keep); err != nil {
			applog.Warn(0, "spot.prune", map[string]any{"err": err.Error()})
		}
		return price, nil
	})
	if err == nil {
		return v.(float64), nil
	}

	applog.Warn(0, "spot.fetch.failed", map[string]any{"err": err.Error()})

	// Upstream is down: the newest sample of any age is still better than
	// nothing.
	smp, ferr := s.Samples.LatestAny()
	if ferr == nil {
		applog.Info(0, "spot.fallback.stale", map[string]any{"fetched_at": smp.FetchedAt})
		return smp.Price, nil
	}
	return 0, ErrSpotUnavailable
}

// fetch pulls the upstream document and extracts the price field. A missing
// or non-numeric field is the same as a network failure to the caller.
func (s *SpotPriceService) fetch(ctx context.Context) (float64, error) {
	var doc feedDoc
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(s.feedURL)
	if err != nil {
		return 0, fmt.Errorf("spot feed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("spot feed: status %d", resp.StatusCode())
	}
	if doc.Price == nil {
		return 0, errors.New("spot feed: price field missing")
	}
	if *doc.Price <= 0 {
		return 0, fmt.Errorf("spot feed: non-positive price %v", *doc.Price)
	}
	return *doc.Price, nil
}
