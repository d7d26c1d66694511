package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"time"

	"goldbot/internal/domain"
	"goldbot/internal/repos"
	"goldbot/internal/validate"
)

var ErrTokenInvalid = errors.New("invite token invalid")

const (
	TokenTypeCollab = "collab"
	TokenTypeAdmin  = "admin"
)

// TokenService issues and redeems invite tokens. Admin tokens are one-time
// and expire; collaborator tokens are reusable and never expire in practice.
type TokenService struct {
	Tokens      *repos.TokenRepo
	AdminExpiry time.Duration
	now         func() time.Time
}

func NewTokenService(tokens *repos.TokenRepo, adminExpiry time.Duration) *TokenService {
	return &TokenService{Tokens: tokens, AdminExpiry: adminExpiry, now: time.Now}
}

// Issue creates a token of the given type. channelID is only meaningful for
// admin tokens, which bind the new admin to that channel.
func (s *TokenService) Issue(tokenType string, createdBy int64, channelID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	expires := s.now().Add(s.AdminExpiry)
	if tokenType == TokenTypeCollab {
		expires = s.now().AddDate(100, 0, 0) // reusable, practically unexpiring
	}

	err := s.Tokens.Create(domain.InviteToken{
		Token:     token,
		Type:      tokenType,
		ChannelID: channelID,
		CreatedBy: createdBy,
		ExpiresAt: expires.Unix(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Redeem validates a token and, for one-time admin tokens, consumes it.
func (s *TokenService) Redeem(token string) (domain.InviteToken, error) {
	if !validate.Token(token) {
		return domain.InviteToken{}, ErrTokenInvalid
	}
	t, err := s.Tokens.Get(token)
	if err == sql.ErrNoRows {
		return domain.InviteToken{}, ErrTokenInvalid
	}
	if err != nil {
		return domain.InviteToken{}, err
	}
	if t.Type == TokenTypeAdmin && t.Used {
		return domain.InviteToken{}, ErrTokenInvalid
	}
	if t.ExpiresAt < s.now().Unix() {
		return domain.InviteToken{}, ErrTokenInvalid
	}
	if t.Type == TokenTypeAdmin {
		if err := s.Tokens.MarkUsed(token); err != nil {
			return domain.InviteToken{}, err
		}
	}
	return t, nil
}
