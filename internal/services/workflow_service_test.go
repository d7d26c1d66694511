package services_test

import (
	"testing"

	"goldbot/internal/services"
)

func TestAuthoringFlow(t *testing.T) {
	sessions := services.NewMemorySessionStore()
	wf := services.NewWorkflowService(sessions)

	d := wf.StartDraft(1, "photo-1")
	if d.ID == "" || d.PhotoRef != "photo-1" {
		t.Fatalf("draft %+v", d)
	}
	if sessions.Get(1).Mode != services.ModeAwaitCaption {
		t.Fatal("not awaiting caption")
	}

	d2, ok := wf.SubmitCaption(1, "ring")
	if !ok || d2.Caption != "ring" || !d2.CaptionSet {
		t.Fatalf("caption: %+v %v", d2, ok)
	}

	if _, err := wf.SubmitWeight(1, "abc"); err != services.ErrBadWeight {
		t.Fatalf("want ErrBadWeight, got %v", err)
	}
	// Bad input did not advance the state.
	if sessions.Get(1).Mode != services.ModeAwaitWeight {
		t.Fatal("state advanced on bad weight")
	}

	d3, err := wf.SubmitWeight(1, "5.5")
	if err != nil {
		t.Fatal(err)
	}
	if d3.Weight != 5.5 || sessions.Get(1).Mode != services.ModePreview {
		t.Fatalf("weight: %+v mode %v", d3, sessions.Get(1).Mode)
	}

	wf.PreviewShown(1, 10, 11)
	live, err := wf.LiveDraft(1, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if live.PreviewMessageID != 10 || live.ControlMessageID != 11 {
		t.Fatalf("preview ids: %+v", live)
	}
	if _, err := wf.FinalizableDraft(1, d.ID); err != nil {
		t.Fatal(err)
	}
}

func TestEmptyCaptionIsValid(t *testing.T) {
	wf := services.NewWorkflowService(services.NewMemorySessionStore())
	d := wf.StartDraft(1, "photo-1")
	if _, ok := wf.SubmitCaption(1, ""); !ok {
		t.Fatal("empty caption rejected")
	}
	if _, err := wf.SubmitWeight(1, "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := wf.FinalizableDraft(1, d.ID); err != nil {
		t.Fatalf("empty-caption draft not finalizable: %v", err)
	}
}

func TestLastPhotoWins(t *testing.T) {
	wf := services.NewWorkflowService(services.NewMemorySessionStore())

	d1 := wf.StartDraft(1, "photo-1")
	d2 := wf.StartDraft(1, "photo-2")
	if d1.ID == d2.ID {
		t.Fatal("new photo reused draft id")
	}
	if _, err := wf.LiveDraft(1, d1.ID); err != services.ErrDraftExpired {
		t.Fatalf("old draft still live: %v", err)
	}
	if _, err := wf.LiveDraft(1, d2.ID); err != nil {
		t.Fatal(err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	wf := services.NewWorkflowService(services.NewMemorySessionStore())
	d := wf.StartDraft(1, "photo-1")
	wf.PreviewShown(1, 10, 11)

	dropped, err := wf.Cancel(1, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dropped.PreviewMessageID != 10 {
		t.Fatalf("dropped draft: %+v", dropped)
	}
	if _, err := wf.Cancel(1, d.ID); err != services.ErrDraftExpired {
		t.Fatalf("second cancel: %v", err)
	}
}

func TestCaptionOutOfOrder(t *testing.T) {
	wf := services.NewWorkflowService(services.NewMemorySessionStore())
	if _, ok := wf.SubmitCaption(1, "stray"); ok {
		t.Fatal("caption accepted with no draft")
	}
	if _, err := wf.SubmitWeight(1, "2"); err != services.ErrDraftExpired {
		t.Fatalf("weight with no draft: %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	wf := services.NewWorkflowService(services.NewMemorySessionStore())
	d1 := wf.StartDraft(1, "photo-1")
	d2 := wf.StartDraft(2, "photo-2")

	if _, ok := wf.SubmitCaption(2, "other"); !ok {
		t.Fatal("user 2 caption rejected")
	}
	live, err := wf.LiveDraft(1, d1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if live.CaptionSet {
		t.Fatal("user 2 caption leaked into user 1 draft")
	}
	if _, err := wf.LiveDraft(2, d2.ID); err != nil {
		t.Fatal(err)
	}
}

func TestEnterClearsOtherFlows(t *testing.T) {
	sessions := services.NewMemorySessionStore()
	sess := sessions.Get(1)

	sess.Enter(services.ModeAwaitOverrideValue)
	sess.EditingSetID = 42
	sess.EditingField = "customerTax"

	// Arming the broadcast flow drops the override bookkeeping.
	sess.Enter(services.ModeAwaitBroadcast)
	if sess.EditingSetID != 0 || sess.EditingField != "" {
		t.Fatalf("override state survived: %+v", sess)
	}
	sess.BroadcastMessageID = 7

	sess.Enter(services.ModeAwaitChannelForward)
	if sess.BroadcastMessageID != 0 {
		t.Fatalf("broadcast state survived: %+v", sess)
	}
}
