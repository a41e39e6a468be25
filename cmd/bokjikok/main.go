// bokjikok is the interactive terminal client: it keeps the catalog,
// bookmark, notification and chat state locally and talks to the backend
// (or the mockapi dev server) for search, diagnosis, chat and login.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/redis/go-redis/v9"

	"github.com/bokjikok/bokjikok/internal/auth"
	"github.com/bokjikok/bokjikok/internal/bookmarks"
	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/chat"
	"github.com/bokjikok/bokjikok/internal/config"
	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/match"
	"github.com/bokjikok/bokjikok/internal/models"
	"github.com/bokjikok/bokjikok/internal/notify"
	"github.com/bokjikok/bokjikok/internal/view"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOKJIKOK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer logg.Sync()

	app := newApp(cfg, logg)
	defer app.close()

	app.run()
}

type app struct {
	cfg  *config.Config
	log  logger.Logger
	out  *bufio.Writer
	gate *view.Gate

	catalog   *catalog.Provider
	bookmarks *bookmarks.Manager
	session   *chat.Session
	matcher   *match.Matcher
	authc     *auth.Client
	login     *auth.Session

	profile models.Profile

	mu            sync.Mutex
	notifications []models.Notification
	stopRefresh   chan struct{}
}

func newApp(cfg *config.Config, logg logger.Logger) *app {
	a := &app{
		cfg:     cfg,
		log:     logg,
		out:     bufio.NewWriter(os.Stdout),
		catalog: catalog.NewProvider(cfg.APIBaseURL, cfg.RequestTimeout(), logg),
		matcher: match.NewMatcher(cfg.APIBaseURL, cfg.RequestTimeout(), cfg.Match.Limit, logg),
		authc:   auth.NewClient(cfg.APIBaseURL, cfg.RequestTimeout()),
		login:   auth.NewSession(),
	}
	a.gate = view.NewGate(a.login.Authenticated)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()
	a.bookmarks = bookmarks.NewManager(ctx, newStore(cfg, logg), logg)

	var responder chat.Responder = chat.NewRemoteClient(cfg.APIBaseURL, cfg.RequestTimeout())
	if local, _ := strconv.ParseBool(os.Getenv("BOKJIKOK_CHAT_LOCAL")); local {
		responder = chat.NewLocalResponder()
	}
	policy := chat.ParseMergePolicy(cfg.Chat.MergePolicy)
	a.session = chat.NewSession(responder, policy, cfg.RequestTimeout(), logg)

	return a
}

func newStore(cfg *config.Config, logg logger.Logger) bookmarks.Store {
	if cfg.Bookmarks.Backend == "redis" {
		logg.Info("using redis bookmark backend", logger.String("addr", cfg.Bookmarks.RedisAddr))
		return bookmarks.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Bookmarks.RedisAddr,
			Password: cfg.Bookmarks.RedisPassword,
			DB:       cfg.Bookmarks.RedisDB,
		}))
	}
	return bookmarks.NewFileStore(cfg.BookmarkFile())
}

func (a *app) close() {
	a.session.Wait()
	a.stopNotifyRefresh()
	a.out.Flush()
}

func (a *app) run() {
	a.printf("복지콕 — 맞춤형 복지 혜택 안내\n")
	a.printf("명령어를 보려면 help 를 입력하세요.\n\n")
	a.renderHome("", "")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		a.printf("> ")
		a.out.Flush()
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !a.dispatch(line) {
			return
		}
	}
}

// dispatch executes one command line, reporting false on quit.
func (a *app) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		a.printf("안녕히 가세요!\n")
		return false
	case "help":
		a.printHelp()
	case "menu":
		a.renderMenu()
	case "go":
		if len(args) == 0 {
			a.printf("사용법: go <view>\n")
			break
		}
		a.switchView(view.ID(args[0]))
	case "list":
		category, query := "", ""
		if len(args) > 0 {
			category = args[0]
		}
		if len(args) > 1 {
			query = strings.Join(args[1:], " ")
		}
		a.renderHome(category, query)
	case "show":
		if len(args) == 0 {
			a.printf("사용법: show <id>\n")
			break
		}
		a.renderItem(args[0])
	case "refresh":
		a.refreshCatalog()
	case "bm", "bookmark":
		if len(args) == 0 {
			a.printf("사용법: bookmark <id>\n")
			break
		}
		a.toggleBookmark(args[0])
	case "profile":
		a.editProfile(args)
	case "match":
		a.runMatch()
	case "diagnose":
		a.runDiagnosis()
	case "chat":
		if len(args) == 0 {
			a.renderChat()
			break
		}
		a.sendChat(strings.Join(args, " "))
	case "quick":
		a.quickQuestion(args)
	case "login":
		if len(args) != 2 {
			a.printf("사용법: login <email> <password>\n")
			break
		}
		a.doLogin(args[0], args[1])
	case "logout":
		a.doLogout()
	default:
		a.printf("알 수 없는 명령어입니다: %s (help 참고)\n", cmd)
	}
	return true
}

func (a *app) printHelp() {
	a.printf(`명령어:
  menu                  전체 메뉴 보기
  go <view>             화면 이동 (home/profile/chat/bookmarks/alarms/diagnosis/history/mypage)
  list [분야] [검색어]   혜택 목록 (분야: %s)
  show <id>             혜택 상세
  refresh               원격 카탈로그 새로고침
  bookmark <id>         즐겨찾기 추가/해제
  profile [필드 값]      프로필 보기/수정 (age/income/job/family/region)
  match                 프로필 기반 혜택 검색
  diagnose              자가진단
  chat [메시지]          상담 내역 보기 / 메시지 보내기
  quick [번호]           빠른 질문 목록 / 보내기
  login <email> <pw>    로그인
  logout                로그아웃
  quit                  종료
`, strings.Join(catalog.Categories, "/"))
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	return t
}

// switchView moves through the gate, then renders the target view. A blocked
// switch surfaces the login prompt instead.
func (a *app) switchView(id view.ID) {
	if !a.gate.SwitchTo(id) {
		if a.gate.LoginPromptPending() {
			a.printf("로그인이 필요한 메뉴입니다. login <email> <password> 로 로그인해주세요.\n")
		} else {
			a.printf("없는 화면입니다: %s (menu 참고)\n", id)
		}
		return
	}

	switch id {
	case view.Home:
		a.renderHome("", "")
	case view.Profile:
		a.renderProfile()
	case view.Chat:
		a.renderChat()
	case view.Bookmarks, view.MyPage:
		a.renderBookmarks()
	case view.Alarms:
		a.renderAlarms()
	case view.Diagnosis:
		a.printf("자가진단을 시작하려면 diagnose 를 입력하세요.\n")
	case view.History:
		a.renderChat()
	}
}

func (a *app) renderMenu() {
	t := a.newTable()
	t.AppendHeader(table.Row{"View", "이름", "로그인"})
	for _, info := range view.Views() {
		required := ""
		if info.RequiresLogin {
			required = "필요"
		}
		marker := ""
		if info.ID == a.gate.Current() {
			marker = " *"
		}
		t.AppendRow(table.Row{string(info.ID) + marker, info.Label, required})
	}
	t.Render()
}

func (a *app) renderHome(category, query string) {
	items := a.catalog.Filter(category, query)
	if len(items) == 0 {
		a.printf("조건에 맞는 혜택이 없습니다.\n")
		return
	}
	a.renderItems(items)
}

func (a *app) renderItems(items []models.BenefitItem) {
	t := a.newTable()
	t.AppendHeader(table.Row{"ID", "혜택", "분야", "지원 내용", "마감", "★"})
	for _, item := range items {
		star := ""
		if a.bookmarks.IsBookmarked(item.ID) {
			star = "★"
		}
		t.AppendRow(table.Row{item.ID, catalog.TruncateText(item.Title, 30), item.Category, item.Amount, deadlineLabel(item), star})
	}
	t.Render()
}

func deadlineLabel(item models.BenefitItem) string {
	if item.AlwaysOpen {
		return "상시"
	}
	if item.Deadline != nil {
		return item.Deadline.Format("2006-01-02")
	}
	return "-"
}

func (a *app) renderItem(id string) {
	item, ok := a.catalog.Lookup(id)
	if !ok {
		a.printf("해당 ID의 혜택이 없습니다: %s\n", id)
		return
	}
	a.printf("%s (%s)\n", item.Title, item.Category)
	a.printf("  지원 내용: %s\n", item.Amount)
	a.printf("  신청 기관: %s\n", item.Agency)
	a.printf("  신청 기간: %s\n", deadlineLabel(item))
	if item.Conditions != "" {
		a.printf("  지원 대상: %s\n", item.Conditions)
	}
	if item.Summary != "" {
		a.printf("  요약: %s\n", item.Summary)
	}
	for _, b := range item.Benefits {
		a.printf("  - %s\n", b)
	}
	if a.bookmarks.IsBookmarked(item.ID) {
		a.printf("  ★ 즐겨찾기에 담겨 있습니다.\n")
	}
}

func (a *app) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()
	if err := a.catalog.Refresh(ctx); err != nil {
		a.log.Warn("catalog refresh failed", logger.Error(err))
		a.printf("카탈로그를 불러오지 못했습니다. 기존 목록을 유지합니다.\n")
		return
	}
	a.printf("카탈로그를 새로고침했습니다. (%d건)\n", len(a.catalog.Items()))
}

func (a *app) toggleBookmark(id string) {
	if _, ok := a.catalog.Lookup(id); !ok {
		a.printf("해당 ID의 혜택이 없습니다: %s\n", id)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()
	if a.bookmarks.Toggle(ctx, id) {
		a.printf("즐겨찾기에 추가했습니다. (총 %d건)\n", a.bookmarks.Count())
	} else {
		a.printf("즐겨찾기에서 해제했습니다. (총 %d건)\n", a.bookmarks.Count())
	}
}

// renderBookmarks joins the bookmark ids against the current catalog; ids
// whose item no longer exists are listed by id only.
func (a *app) renderBookmarks() {
	ids := a.bookmarks.List()
	if len(ids) == 0 {
		a.printf("즐겨찾기한 혜택이 없습니다.\n")
		return
	}
	if a.gate.Current() == view.MyPage && a.login.Authenticated() {
		a.printf("%s님의 즐겨찾기\n", a.login.DisplayName())
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"ID", "혜택", "분야", "마감"})
	for _, id := range ids {
		item, ok := a.catalog.Lookup(id)
		if !ok {
			t.AppendRow(table.Row{id, "(목록에 없는 혜택)", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{item.ID, catalog.TruncateText(item.Title, 30), item.Category, deadlineLabel(item)})
	}
	t.Render()
}

func (a *app) renderAlarms() {
	a.mu.Lock()
	notifications := append([]models.Notification(nil), a.notifications...)
	a.mu.Unlock()

	if len(notifications) == 0 {
		a.printf("알림이 없습니다.\n")
		return
	}
	t := a.newTable()
	t.AppendHeader(table.Row{"구분", "제목", "내용", "날짜"})
	for _, n := range notifications {
		t.AppendRow(table.Row{string(n.Severity), n.Title, n.Message, n.Date})
	}
	t.Render()
}

var profileFields = map[string]func(*models.Profile, string){
	"age":    func(p *models.Profile, v string) { p.Age = v },
	"income": func(p *models.Profile, v string) { p.Income = v },
	"job":    func(p *models.Profile, v string) { p.Job = models.JobStatus(v) },
	"family": func(p *models.Profile, v string) { p.Family = models.FamilyStatus(v) },
	"region": func(p *models.Profile, v string) { p.Region = v },
}

func (a *app) editProfile(args []string) {
	if len(args) == 0 {
		a.renderProfile()
		return
	}
	if len(args) != 2 {
		a.printf("사용법: profile <age|income|job|family|region> <값>\n")
		return
	}
	set, ok := profileFields[args[0]]
	if !ok {
		a.printf("없는 필드입니다: %s\n", args[0])
		return
	}
	set(&a.profile, args[1])
	a.renderProfile()
}

func (a *app) renderProfile() {
	a.printf("프로필\n")
	a.printf("  나이: %s\n", orDash(a.profile.Age))
	a.printf("  월 소득(만원): %s\n", orDash(a.profile.Income))
	a.printf("  직업: %s\n", orDash(string(a.profile.Job)))
	a.printf("  가족 상황: %s\n", orDash(string(a.profile.Family)))
	a.printf("  지역: %s\n", orDash(a.profile.Region))
	if verr := match.Validate(a.profile); verr != nil {
		for _, msg := range verr.Messages {
			a.printf("  ! %s\n", msg)
		}
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (a *app) runMatch() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()

	items, err := a.matcher.FindMatchingBenefits(ctx, a.profile)
	if err != nil {
		var verr *match.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Messages {
				a.printf("! %s\n", msg)
			}
			return
		}
		a.log.Warn("match request failed", logger.Error(err))
		a.printf("혜택 검색에 실패했습니다. 잠시 후 다시 시도해주세요.\n")
		return
	}
	if len(items) == 0 {
		a.printf("조건에 맞는 혜택을 찾지 못했습니다.\n")
		return
	}
	a.printf("조건에 맞는 혜택 %d건을 찾았습니다.\n", len(items))
	a.renderItems(items)
}

func (a *app) runDiagnosis() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()

	items, err := a.matcher.Diagnose(ctx, a.profile)
	if err != nil {
		var verr *match.ValidationError
		if errors.As(err, &verr) {
			a.printf("자가진단을 위해 프로필을 먼저 입력해주세요:\n")
			for _, msg := range verr.Messages {
				a.printf("! %s\n", msg)
			}
			return
		}
		a.log.Warn("diagnosis request failed", logger.Error(err))
		a.printf("자가진단에 실패했습니다. 잠시 후 다시 시도해주세요.\n")
		return
	}
	if len(items) == 0 {
		a.printf("진단 결과 추천할 혜택이 없습니다.\n")
		return
	}
	a.printf("자가진단 결과: 받을 수 있는 혜택 %d건\n", len(items))
	a.renderItems(items)
}

// sendChat issues one chat message. The profile travels with the request
// only for an authenticated session; anonymous chats carry none.
func (a *app) sendChat(message string) {
	var profile *models.Profile
	if a.login.Authenticated() && a.profile != (models.Profile{}) {
		p := a.profile
		profile = &p
	}
	if !a.session.SendMessage(message, profile) {
		return
	}
	a.session.Wait()
	a.renderChat()
}

func (a *app) quickQuestion(args []string) {
	if len(args) == 0 {
		for i, q := range chat.QuickQuestions {
			a.printf("  %d. %s\n", i+1, q)
		}
		a.printf("quick <번호> 로 질문을 보낼 수 있습니다.\n")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(chat.QuickQuestions) {
		a.printf("1~%d 사이의 번호를 입력해주세요.\n", len(chat.QuickQuestions))
		return
	}
	a.sendChat(chat.QuickQuestions[n-1])
}

func (a *app) renderChat() {
	for _, turn := range a.session.Transcript() {
		switch turn.Kind {
		case chat.TurnUser:
			a.printf("나: %s\n", turn.Message)
		case chat.TurnBot:
			a.printf("복지콕: %s\n", turn.Message)
		case chat.TurnRecommendations:
			a.printf("복지콕: 추천 혜택 %d건\n", len(turn.Items))
			a.renderItems(turn.Items)
		}
	}
}

func (a *app) doLogin(email, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()

	creds, err := a.authc.Login(ctx, auth.LoginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			a.printf("이메일 또는 비밀번호가 올바르지 않습니다.\n")
			return
		}
		a.log.Warn("login failed", logger.Error(err))
		a.printf("로그인에 실패했습니다. 잠시 후 다시 시도해주세요.\n")
		return
	}

	a.login.SetCredentials(creds)
	a.recomputeNotifications(true)
	a.startNotifyRefresh()
	a.printf("%s님, 환영합니다!\n", creds.DisplayName)
	a.renderAlarms()
}

func (a *app) doLogout() {
	if !a.login.Authenticated() {
		a.printf("로그인 상태가 아닙니다.\n")
		return
	}
	a.login.Logout()
	a.stopNotifyRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
	defer cancel()
	a.bookmarks.Clear(ctx)

	a.mu.Lock()
	a.notifications = nil
	a.mu.Unlock()

	a.profile = models.Profile{}
	a.gate.Reset()
	a.printf("로그아웃했습니다.\n")
}

// recomputeNotifications derives the deadline alerts from the current
// catalog snapshot and bookmark set. welcome adds the one-time login greeting.
func (a *app) recomputeNotifications(welcome bool) {
	notifications := notify.ComputeNotifications(a.catalog.Items(), a.bookmarks.Set(), time.Now())
	if welcome {
		notifications = append(notifications, notify.WelcomeNotification())
	}
	a.mu.Lock()
	a.notifications = notifications
	a.mu.Unlock()
}

func (a *app) startNotifyRefresh() {
	interval := a.cfg.NotifyRefreshInterval()
	if interval <= 0 {
		return
	}

	a.mu.Lock()
	if a.stopRefresh != nil {
		a.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	a.stopRefresh = stop
	a.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.recomputeNotifications(false)
			}
		}
	}()
}

func (a *app) stopNotifyRefresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopRefresh != nil {
		close(a.stopRefresh)
		a.stopRefresh = nil
	}
}
