package main

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bokjikok/bokjikok/internal/auth"
	"github.com/bokjikok/bokjikok/internal/bookmarks"
	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/chat"
	"github.com/bokjikok/bokjikok/internal/config"
	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/models"
	"github.com/bokjikok/bokjikok/internal/view"
)

type captureResponder struct {
	mu       sync.Mutex
	profiles []*models.Profile
}

func (c *captureResponder) Reply(_ context.Context, _ string, profile *models.Profile) (*chat.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles = append(c.profiles, profile)
	return &chat.Reply{Text: "답변"}, nil
}

func (c *captureResponder) seen() []*models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*models.Profile(nil), c.profiles...)
}

func newTestApp(t *testing.T, responder chat.Responder) *app {
	t.Helper()
	cfg := &config.Config{}
	logg := logger.Nop()

	a := &app{
		cfg:     cfg,
		log:     logg,
		out:     bufio.NewWriter(io.Discard),
		catalog: catalog.NewProvider("http://unused", time.Second, logg),
		login:   auth.NewSession(),
	}
	a.gate = view.NewGate(a.login.Authenticated)
	path := filepath.Join(t.TempDir(), "bookmarks.v1.json")
	a.bookmarks = bookmarks.NewManager(context.Background(), bookmarks.NewFileStore(path), logg)
	a.session = chat.NewSession(responder, chat.MergeReplaceLatest, time.Second, logg)
	return a
}

func validCreds() *auth.Credentials {
	return &auth.Credentials{
		Token:       "t",
		DisplayName: "김철수",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestSendChat_ProfileOnlyWhenAuthenticated(t *testing.T) {
	responder := &captureResponder{}
	a := newTestApp(t, responder)
	a.profile = models.Profile{Age: "27", Income: "100-200", Job: models.JobStudent}

	a.sendChat("청년 지원 알려줘")
	a.login.SetCredentials(validCreds())
	a.sendChat("청년 지원 알려줘")

	seen := responder.seen()
	if len(seen) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(seen))
	}
	if seen[0] != nil {
		t.Fatalf("anonymous chat must carry no profile, got %+v", seen[0])
	}
	if seen[1] == nil || seen[1].Age != "27" {
		t.Fatalf("authenticated chat must carry the profile, got %+v", seen[1])
	}
}

func TestDoLogout_ClearsSessionState(t *testing.T) {
	a := newTestApp(t, &captureResponder{})
	a.login.SetCredentials(validCreds())
	a.profile = models.Profile{Age: "27", Region: "부산광역시"}
	a.bookmarks.Toggle(context.Background(), "1")
	a.notifications = []models.Notification{{ID: "welcome"}}
	a.gate.SwitchTo(view.MyPage)

	a.doLogout()

	if a.login.Authenticated() {
		t.Fatal("logout must drop credentials")
	}
	if a.profile != (models.Profile{}) {
		t.Fatalf("logout must reset the profile, got %+v", a.profile)
	}
	if a.bookmarks.Count() != 0 {
		t.Fatal("logout must clear bookmarks")
	}
	if len(a.notifications) != 0 {
		t.Fatal("logout must clear notifications")
	}
	if a.gate.Current() != view.Home {
		t.Fatalf("logout must return to home, got %s", a.gate.Current())
	}
}
