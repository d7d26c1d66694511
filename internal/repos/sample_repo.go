package repos

import (
	"time"

	"goldbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type SampleRepo struct{ db *sqlx.DB }

func NewSampleRepo(db *sqlx.DB) *SampleRepo { return &SampleRepo{db: db} }

// LatestFresh returns the newest sample whose expiry is still in the future.
func (r *SampleRepo) LatestFresh(now time.Time) (domain.SpotSample, error) {
	var s domain.SpotSample
	err := r.db.Get(&s, `
	  SELECT id, price, fetched_at, expires_at FROM spot_samples
	  WHERE expires_at > ? ORDER BY id DESC LIMIT 1
	`, now.Unix())
	return s, err
}

// LatestAny returns the newest sample regardless of expiry.
func (r *SampleRepo) LatestAny() (domain.SpotSample, error) {
	var s domain.SpotSample
	err := r.db.Get(&s, `
	  SELECT id, price, fetched_at, expires_at FROM spot_samples
	  ORDER BY id DESC LIMIT 1
	`)
	return s, err
}

func (r *SampleRepo) Insert(price float64, fetchedAt, expiresAt time.Time) error {
	_, err := r.db.Exec(`
	  INSERT INTO spot_samples(price, fetched_at, expires_at) VALUES (?,?,?)
	`, price, fetchedAt.Unix(), expiresAt.Unix())
	return err
}

// Prune deletes everything older than the keep newest samples. The single
// newest row always survives, even with keep <= 0.
func (r *SampleRepo) Prune(keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := r.db.Exec(`
	  DELETE FROM spot_samples WHERE id NOT IN (
	    SELECT id FROM spot_samples ORDER BY id DESC LIMIT ?
	  )
	`, keep)
	return err
}
