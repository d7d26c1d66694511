package services_test

import (
	"testing"
	"time"

	"goldbot/internal/repos"
	"goldbot/internal/services"
)

func TestCollabTokenReusable(t *testing.T) {
	db := memdb(t)
	svc := services.NewTokenService(repos.NewTokenRepo(db), 7*24*time.Hour)

	token, err := svc.Issue(services.TokenTypeCollab, 1, "")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		got, err := svc.Redeem(token)
		if err != nil {
			t.Fatalf("redeem %d: %v", i, err)
		}
		if got.Type != services.TokenTypeCollab {
			t.Fatalf("type %q", got.Type)
		}
	}
}

func TestAdminTokenOneTime(t *testing.T) {
	db := memdb(t)
	svc := services.NewTokenService(repos.NewTokenRepo(db), 7*24*time.Hour)

	token, err := svc.Issue(services.TokenTypeAdmin, 1, "@chan")
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Redeem(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ChannelID != "@chan" {
		t.Fatalf("channel %q", got.ChannelID)
	}
	if _, err := svc.Redeem(token); err != services.ErrTokenInvalid {
		t.Fatalf("second redeem: %v", err)
	}
}

func TestAdminTokenExpires(t *testing.T) {
	db := memdb(t)
	// Negative expiry issues an already-expired token.
	svc := services.NewTokenService(repos.NewTokenRepo(db), -time.Hour)

	token, err := svc.Issue(services.TokenTypeAdmin, 1, "@chan")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Redeem(token); err != services.ErrTokenInvalid {
		t.Fatalf("expired token redeemed: %v", err)
	}
}

func TestRedeemRejectsJunk(t *testing.T) {
	db := memdb(t)
	svc := services.NewTokenService(repos.NewTokenRepo(db), time.Hour)

	for _, tok := range []string{"", "short", "has spaces here yes", "unknown-but-well-formed-token"} {
		if _, err := svc.Redeem(tok); err != services.ErrTokenInvalid {
			t.Errorf("Redeem(%q): %v", tok, err)
		}
	}
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	db := memdb(t)
	svc := services.NewTokenService(repos.NewTokenRepo(db), time.Hour)

	a, err := svc.Issue(services.TokenTypeCollab, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Issue(services.TokenTypeCollab, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two issued tokens collided")
	}
}
