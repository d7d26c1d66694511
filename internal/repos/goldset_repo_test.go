package repos_test

import (
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"

	"goldbot/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGoldSetByMessage(t *testing.T) {
	db := memdb(t)
	sets := repos.NewGoldSetRepo(db)

	id, err := sets.Create("@chan", 555, 2.5, "bangle")
	if err != nil {
		t.Fatal(err)
	}

	s, err := sets.ByMessage("@chan", 555)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != id || s.Weight != 2.5 || s.Caption != "bangle" {
		t.Fatalf("set %+v", s)
	}

	if _, err := sets.ByMessage("@chan", 999); err != sql.ErrNoRows {
		t.Fatalf("unknown message: %v", err)
	}
	if _, err := sets.ByMessage("@other", 555); err != sql.ErrNoRows {
		t.Fatalf("wrong channel: %v", err)
	}
}

func TestGoldSetOverrideLifecycle(t *testing.T) {
	db := memdb(t)
	sets := repos.NewGoldSetRepo(db)

	id, err := sets.Create("@chan", 1, 2.5, "")
	if err != nil {
		t.Fatal(err)
	}

	s, err := sets.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.CustomerTax.Valid {
		t.Fatal("fresh set has a customer tax override")
	}

	if err := sets.UpdateOverrideField(id, "collabSellingProfit", 0.12); err != nil {
		t.Fatal(err)
	}
	s, err = sets.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !s.CollabSellingProfit.Valid || s.CollabSellingProfit.Float64 != 0.12 {
		t.Fatalf("override %+v", s.CollabSellingProfit)
	}

	if err := sets.UpdateOverrideField(id, "nonsense", 0.1); err == nil {
		t.Fatal("unknown field accepted")
	}

	if err := sets.ResetOverrides(id); err != nil {
		t.Fatal(err)
	}
	s, err = sets.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.CollabSellingProfit.Valid {
		t.Fatal("reset left an override in place")
	}
}

func TestAccessRoles(t *testing.T) {
	db := memdb(t)
	access := repos.NewAccessRepo(db)

	if _, err := access.Admin(1); err != sql.ErrNoRows {
		t.Fatalf("unknown admin: %v", err)
	}

	if err := access.UpsertAdmin(1, "@chan", "op"); err != nil {
		t.Fatal(err)
	}
	a, err := access.Admin(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.ChannelID != "@chan" {
		t.Fatalf("admin %+v", a)
	}

	// Re-linking moves the admin to the new channel.
	if err := access.UpsertAdmin(1, "@newchan", "op"); err != nil {
		t.Fatal(err)
	}
	a, err = access.Admin(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.ChannelID != "@newchan" {
		t.Fatalf("admin after relink %+v", a)
	}

	chans, err := access.Channels()
	if err != nil {
		t.Fatal(err)
	}
	if len(chans) != 1 || chans[0] != "@newchan" {
		t.Fatalf("channels %v", chans)
	}

	ok, err := access.IsCollaborator(2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("unknown user is a collaborator")
	}
	if err := access.UpsertCollaborator(2, "friend"); err != nil {
		t.Fatal(err)
	}
	if ok, _ = access.IsCollaborator(2); !ok {
		t.Fatal("collaborator not registered")
	}
	if err := access.DeleteCollaborator(2); err != nil {
		t.Fatal(err)
	}
	if ok, _ = access.IsCollaborator(2); ok {
		t.Fatal("collaborator not removed")
	}
}
