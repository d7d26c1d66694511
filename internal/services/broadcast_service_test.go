package services_test

import (
	"context"
	"errors"
	"testing"

	"goldbot/internal/repos"
	"goldbot/internal/services"
)

// fakeCopier fails for the chat ids in bad.
type fakeCopier struct {
	bad    map[int64]bool
	copied []int64
}

func (c *fakeCopier) Copy(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	if c.bad[toChatID] {
		return errors.New("blocked")
	}
	c.copied = append(c.copied, toChatID)
	return nil
}

func TestBroadcastCountsFailures(t *testing.T) {
	db := memdb(t)
	access := repos.NewAccessRepo(db)
	for _, id := range []int64{10, 11, 12} {
		if err := access.UpsertCollaborator(id, ""); err != nil {
			t.Fatal(err)
		}
	}

	copier := &fakeCopier{bad: map[int64]bool{11: true}}
	svc := services.NewBroadcastService(access, copier)

	sent, failed, err := svc.Send(context.Background(), 1, 77)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 2 || failed != 1 {
		t.Fatalf("sent %d failed %d", sent, failed)
	}
	if len(copier.copied) != 2 {
		t.Fatalf("copied to %v", copier.copied)
	}
}

func TestBroadcastNoCollaborators(t *testing.T) {
	db := memdb(t)
	svc := services.NewBroadcastService(repos.NewAccessRepo(db), &fakeCopier{})

	sent, failed, err := svc.Send(context.Background(), 1, 77)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 || failed != 0 {
		t.Fatalf("sent %d failed %d", sent, failed)
	}
}
