package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"goldbot/internal/command"
	"goldbot/internal/repos"
	"goldbot/internal/services"
)

// fakeTransport records outbound traffic; message ids count up from 1.
type fakeTransport struct {
	nextID  int
	sent    []string
	photos  []string
	answers []string
}

func (t *fakeTransport) SendMessage(ctx context.Context, chat, text string, kb [][]Button) (int, error) {
	t.nextID++
	t.sent = append(t.sent, text)
	return t.nextID, nil
}

func (t *fakeTransport) SendPhoto(ctx context.Context, chat, photoRef, caption string, kb [][]Button) (int, error) {
	t.nextID++
	t.photos = append(t.photos, photoRef)
	return t.nextID, nil
}

func (t *fakeTransport) EditButtons(ctx context.Context, chat string, messageID int, kb [][]Button) error {
	return nil
}

func (t *fakeTransport) DeleteMessage(ctx context.Context, chat string, messageID int) error {
	return nil
}

func (t *fakeTransport) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	t.answers = append(t.answers, text)
	return nil
}

func (t *fakeTransport) CopyMessage(ctx context.Context, toChat, fromChat string, messageID int) (int, error) {
	t.nextID++
	return t.nextID, nil
}

func (t *fakeTransport) React(ctx context.Context, chat string, messageID int, emoji string) error {
	return nil
}

func (t *fakeTransport) Username() string { return "goldbot" }

func testRouter(t *testing.T, feedURL string) (*Router, *fakeTransport, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	ft := &fakeTransport{}
	sessions := services.NewMemorySessionStore()
	workflow := services.NewWorkflowService(sessions)
	sets := repos.NewGoldSetRepo(db)
	r := &Router{
		T:         ft,
		Sessions:  sessions,
		Workflow:  workflow,
		Publish:   services.NewPublishService(workflow, sets, NewChannelPoster(ft)),
		Pricing:   services.NewPricingService(repos.NewConfigRepo(db)),
		Spot:      services.NewSpotPriceService(repos.NewSampleRepo(db), feedURL, time.Minute, 10),
		Broadcast: services.NewBroadcastService(repos.NewAccessRepo(db), NewMessageCopier(ft)),
		Analytics: services.NewAnalyticsService(sets, repos.NewAccessRepo(db), NewReportSender(ft)),
		Tokens:    services.NewTokenService(repos.NewTokenRepo(db), time.Hour),
		Access:    repos.NewAccessRepo(db),
		Sets:      sets,
	}
	return r, ft, db
}

// A forwarded channel post is also a photo post; the forward must open the
// override menu, not start a draft.
func TestForwardedPostOpensOverrideMenu(t *testing.T) {
	r, ft, _ := testRouter(t, "http://127.0.0.1:1")

	if err := r.Access.UpsertAdmin(1, "-100123", "op"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Sets.Create("-100123", 5, 2.5, "bangle"); err != nil {
		t.Fatal(err)
	}

	r.Dispatch(context.Background(), Update{
		ID: 1, UserID: 1, ChatID: 1, MessageID: 9,
		PhotoRef:         "file-123",
		ForwardChannelID: "-100123",
		ForwardMessageID: 5,
	})

	if len(ft.sent) != 1 || ft.sent[0] != msgOverrideMenu {
		t.Fatalf("sent %q", ft.sent)
	}
	if sess := r.Sessions.Get(1); sess.Mode != services.ModeIdle || sess.Draft != nil {
		t.Fatalf("forward started a draft: mode %v draft %+v", sess.Mode, sess.Draft)
	}
}

// Same collision during /setchannel: the forwarded photo post must bind the
// channel instead of becoming a draft.
func TestForwardedPhotoBindsChannel(t *testing.T) {
	r, ft, _ := testRouter(t, "http://127.0.0.1:1")

	r.Sessions.Get(1).Enter(services.ModeAwaitChannelForward)
	r.Dispatch(context.Background(), Update{
		ID: 1, UserID: 1, ChatID: 1, MessageID: 9,
		PhotoRef:         "file-123",
		ForwardChannelID: "-100123",
		ForwardMessageID: 5,
	})

	if len(ft.sent) != 1 || ft.sent[0] != msgChannelSet {
		t.Fatalf("sent %q", ft.sent)
	}
	a, err := r.Access.Admin(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.ChannelID != "-100123" {
		t.Fatalf("bound channel %q", a.ChannelID)
	}
}

func TestPlainPhotoStillStartsDraft(t *testing.T) {
	r, ft, _ := testRouter(t, "http://127.0.0.1:1")

	if err := r.Access.UpsertAdmin(1, "-100123", "op"); err != nil {
		t.Fatal(err)
	}
	r.Dispatch(context.Background(), Update{ID: 1, UserID: 1, ChatID: 1, MessageID: 9, PhotoRef: "file-123"})

	if len(ft.sent) != 1 || ft.sent[0] != msgPhotoReceived {
		t.Fatalf("sent %q", ft.sent)
	}
	if sess := r.Sessions.Get(1); sess.Mode != services.ModeAwaitCaption {
		t.Fatalf("mode %v", sess.Mode)
	}
}

// A failed spot fetch answers an apology and records no view.
func TestFailedPriceFetchRecordsNoView(t *testing.T) {
	r, ft, db := testRouter(t, "http://127.0.0.1:1")

	id, err := r.Sets.Create("-100123", 5, 2.5, "bangle")
	if err != nil {
		t.Fatal(err)
	}
	r.Dispatch(context.Background(), Update{
		ID: 1, UserID: 2, ChatID: 2, MessageID: 9,
		CallbackID:   "cb1",
		CallbackData: command.ChannelPriceRef(id),
	})

	if len(ft.answers) != 1 || ft.answers[0] != msgPriceFetchFailed {
		t.Fatalf("answers %q", ft.answers)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM price_checks`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("%d views recorded for a failed fetch", n)
	}
}

func TestShownPriceRecordsView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"price": 1000000}`)
	}))
	defer srv.Close()
	r, ft, db := testRouter(t, srv.URL)

	id, err := r.Sets.Create("-100123", 5, 2.5, "bangle")
	if err != nil {
		t.Fatal(err)
	}
	r.Dispatch(context.Background(), Update{
		ID: 1, UserID: 2, ChatID: 2, MessageID: 9,
		CallbackID:   "cb1",
		CallbackData: command.ChannelPriceRef(id),
	})

	if len(ft.answers) != 1 || ft.answers[0] == msgPriceFetchFailed {
		t.Fatalf("answers %q", ft.answers)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM price_checks`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("%d views recorded", n)
	}
}
