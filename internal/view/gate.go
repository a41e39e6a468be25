package view

import "sync"

// ID names a client view.
type ID string

const (
	Home      ID = "home"
	Profile   ID = "profile"
	Chat      ID = "chat"
	Bookmarks ID = "bookmarks"
	Alarms    ID = "alarms"
	Diagnosis ID = "diagnosis"
	History   ID = "history"
	MyPage    ID = "mypage"
)

// Info describes one menu entry.
type Info struct {
	ID            ID
	Label         string
	RequiresLogin bool
}

// registry is the single source of truth for which views exist and which
// require authentication. The gate consults it at exactly one point.
var registry = []Info{
	{ID: Home, Label: "홈"},
	{ID: Profile, Label: "개인정보 입력"},
	{ID: Chat, Label: "AI 상담"},
	{ID: Bookmarks, Label: "즐겨찾기"},
	{ID: Diagnosis, Label: "자가진단"},
	{ID: Alarms, Label: "알림", RequiresLogin: true},
	{ID: History, Label: "상담 기록", RequiresLogin: true},
	{ID: MyPage, Label: "마이페이지", RequiresLogin: true},
}

// Views returns the menu entries in display order.
func Views() []Info {
	return append([]Info(nil), registry...)
}

func lookup(id ID) (Info, bool) {
	for _, info := range registry {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}

// Gate tracks the current view and blocks gated views for unauthenticated
// sessions. A blocked switch leaves the current view unchanged and raises
// the login-prompt flag instead.
type Gate struct {
	authenticated func() bool

	mu          sync.Mutex
	current     ID
	loginPrompt bool
}

func NewGate(authenticated func() bool) *Gate {
	return &Gate{authenticated: authenticated, current: Home}
}

func (g *Gate) Current() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// SwitchTo attempts to change the current view and reports whether it did.
// Unknown views are rejected without raising the prompt.
func (g *Gate) SwitchTo(id ID) bool {
	info, ok := lookup(id)
	if !ok {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if info.RequiresLogin && !g.authenticated() {
		g.loginPrompt = true
		return false
	}
	g.current = id
	return true
}

// LoginPromptPending reports and clears the prompt flag; the front end shows
// the login dialog once per blocked attempt.
func (g *Gate) LoginPromptPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	pending := g.loginPrompt
	g.loginPrompt = false
	return pending
}

// Reset returns to the home view, used after logout.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = Home
	g.loginPrompt = false
}
