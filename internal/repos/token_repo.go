package repos

import (
	"goldbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type TokenRepo struct{ db *sqlx.DB }

func NewTokenRepo(db *sqlx.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Create(t domain.InviteToken) error {
	_, err := r.db.Exec(`
	  INSERT INTO invite_tokens(token, type, channel_id, created_by, expires_at)
	  VALUES (?,?,?,?,?)
	`, t.Token, t.Type, t.ChannelID, t.CreatedBy, t.ExpiresAt)
	return err
}

func (r *TokenRepo) Get(token string) (domain.InviteToken, error) {
	var t domain.InviteToken
	err := r.db.Get(&t, `
	  SELECT token, type, channel_id, created_by, used, expires_at, created_at
	  FROM invite_tokens WHERE token = ?
	`, token)
	return t, err
}

func (r *TokenRepo) MarkUsed(token string) error {
	_, err := r.db.Exec(`UPDATE invite_tokens SET used = 1 WHERE token = ?`, token)
	return err
}
