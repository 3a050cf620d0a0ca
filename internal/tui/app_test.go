package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/fakeapi"
	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/internal/session"
	"github.com/naveenspark/bartr/internal/tokenstore"
	"github.com/naveenspark/bartr/pkg/client"
	"github.com/naveenspark/bartr/pkg/domain"
)

type testEnv struct {
	srv   *fakeapi.Server
	store tokenstore.Store
	app   App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	store := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "token"))
	mgr := session.NewManager(client.New(srv.URL, ""), store, logging.Nop())
	a := NewApp(mgr, logging.Nop(), Options{NoticeDelay: time.Millisecond})
	a.width = 100
	a.height = 60
	return &testEnv{srv: srv, store: store, app: a}
}

// signIn saves a token for a new user and restores the session from it.
func (e *testEnv) signIn(t *testing.T, name string) domain.User {
	t.Helper()
	user, token := e.srv.AddUser(name, name+"@example.com", "secret1")
	if err := e.store.Save(context.Background(), token); err != nil {
		t.Fatalf("save token: %v", err)
	}
	e.app = run(t, e.app, e.app.checkAuth())
	if e.app.screen != screenMain {
		t.Fatalf("expected main screen after sign in, got %d (auth err %q)", e.app.screen, e.app.auth.err)
	}
	return user
}

func (e *testEnv) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		model, cmd := e.app.Update(key(k))
		e.app = run(t, model.(App), cmd)
	}
}

// key builds a KeyMsg. Named keys map to their type; anything else is
// typed as runes.
func key(s string) tea.KeyMsg {
	named := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"backspace": tea.KeyBackspace,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"ctrl+c":    tea.KeyCtrlC,
		"ctrl+s":    tea.KeyCtrlS,
		"ctrl+t":    tea.KeyCtrlT,
	}
	if kt, ok := named[s]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds every message it produces back into a until
// nothing is left. Shimmer ticks and quit are dropped.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case shimmerTickMsg, tea.QuitMsg:
		default:
			model, next := a.Update(msg)
			a = model.(App)
			queue = append(queue, next)
		}
	}
	return a
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAppStartsOnAuthWithoutToken(t *testing.T) {
	e := newTestEnv(t)
	if !strings.Contains(e.app.View(), "checking session") {
		t.Error("expected checking screen before Init completes")
	}

	e.app = run(t, e.app, e.app.checkAuth())
	if e.app.screen != screenAuth {
		t.Fatalf("expected auth screen, got %d", e.app.screen)
	}
	if e.app.auth.err != "" {
		t.Errorf("no token should not show an error, got %q", e.app.auth.err)
	}
	if !strings.Contains(e.app.View(), "Login") {
		t.Error("auth view should offer Login")
	}
}

func TestAppRestoresSessionAndLoadsDeck(t *testing.T) {
	e := newTestEnv(t)
	bob, _ := e.srv.AddUser("bob", "bob@example.com", "secret1")
	e.srv.AddItem(bob.ID, "Road bike", "sports")

	e.signIn(t, "ana")

	if e.app.view != viewSwipe {
		t.Errorf("expected swipe view, got %d", e.app.view)
	}
	if got := e.app.Session().UserName(); got != "ana" {
		t.Errorf("session user = %q, want ana", got)
	}
	v := e.app.View()
	for _, want := range []string{"signed in as", "ana", "Road bike", "Posted by bob"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppRejectedTokenReturnsToAuth(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.srv.AddUser("ana", "ana@example.com", "secret1")
	e.srv.RevokeTokens()
	if err := e.store.Save(context.Background(), token); err != nil {
		t.Fatal(err)
	}

	e.app = run(t, e.app, e.app.checkAuth())
	if e.app.screen != screenAuth {
		t.Fatalf("expected auth screen, got %d", e.app.screen)
	}
	if e.app.Session().Authenticated() {
		t.Error("session should be empty after failed check")
	}
	saved, _ := e.store.Load(context.Background()) //nolint:errcheck
	if saved != "" {
		t.Errorf("rejected token should be cleared, store has %q", saved)
	}
}

func TestAppLoginFlow(t *testing.T) {
	e := newTestEnv(t)
	e.srv.AddUser("cy", "cy@example.com", "secret1")
	e.app = run(t, e.app, e.app.checkAuth())

	e.press(t, "cy@example.com", "tab", "secret1", "enter")

	if e.app.screen != screenMain {
		t.Fatalf("expected main screen after login, got %d (err %q)", e.app.screen, e.app.auth.err)
	}
	saved, _ := e.store.Load(context.Background()) //nolint:errcheck
	if saved == "" || saved != e.app.Session().Token {
		t.Errorf("token not persisted: store=%q session=%q", saved, e.app.Session().Token)
	}
}

func TestAppLoginFailureShowsServerMessage(t *testing.T) {
	e := newTestEnv(t)
	e.srv.AddUser("cy", "cy@example.com", "secret1")
	e.app = run(t, e.app, e.app.checkAuth())

	e.press(t, "cy@example.com", "tab", "nope", "enter")

	if e.app.screen != screenAuth {
		t.Fatalf("expected to stay on auth screen, got %d", e.app.screen)
	}
	if !strings.Contains(e.app.View(), "invalid credentials") {
		t.Errorf("expected server error in view, got:\n%s", e.app.View())
	}
	if e.app.auth.password != "" {
		t.Error("password should be cleared after a failed attempt")
	}
}

func TestAppRegisterFlow(t *testing.T) {
	e := newTestEnv(t)
	e.app = run(t, e.app, e.app.checkAuth())

	e.press(t, "ctrl+t")
	if e.app.auth.mode != authRegister {
		t.Fatal("ctrl+t should switch to register")
	}
	e.press(t, "Dee", "tab", "dee@example.com", "tab", "secret1", "ctrl+s")

	if e.app.screen != screenMain {
		t.Fatalf("expected main screen after register, got %d (err %q)", e.app.screen, e.app.auth.err)
	}
	if got := e.app.Session().UserName(); got != "Dee" {
		t.Errorf("session user = %q, want Dee", got)
	}
}

func TestAppAuthRequiresAllFields(t *testing.T) {
	e := newTestEnv(t)
	e.app = run(t, e.app, e.app.checkAuth())

	model, cmd := e.app.Update(key("ctrl+s"))
	e.app = model.(App)
	if cmd != nil {
		t.Error("empty form should not submit")
	}
	if !strings.Contains(e.app.View(), "Please fill in all fields.") {
		t.Error("expected validation message")
	}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"1", viewSwipe},
		{"2", viewItems},
		{"3", viewMatches},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			e := newTestEnv(t)
			e.signIn(t, "ana")
			e.press(t, tc.key)
			if e.app.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, e.app.view)
			}
		})
	}
}

func TestAppItemsTabOpensAddForm(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, "ana")
	e.app.items.tab = itemsMine

	e.press(t, "2")
	if e.app.items.tab != itemsAdd {
		t.Error("activating the items tab should show the add sub-tab")
	}
}

func TestAppGlobalKeysSuppressedWhileEditing(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, "ana")
	e.press(t, "2", "enter")
	if !e.app.isEditing() {
		t.Fatal("enter on the add form should focus it")
	}

	model, cmd := e.app.Update(key("q"))
	e.app = model.(App)
	if isQuit(cmd) {
		t.Error("q while editing should type, not quit")
	}
	e.press(t, "3")
	if e.app.view != viewItems {
		t.Error("tab keys should be suppressed while editing")
	}
	if got := e.app.items.fields[fieldTitle]; got != "q3" {
		t.Errorf("title = %q, want %q", got, "q3")
	}

	e.press(t, "esc", "3")
	if e.app.view != viewMatches {
		t.Error("after esc, tab keys should work again")
	}
}

func TestAppQuit(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, "ana")

	_, cmd := e.app.Update(key("q"))
	if !isQuit(cmd) {
		t.Error("expected quit command on 'q'")
	}
	_, cmd = e.app.Update(key("ctrl+c"))
	if !isQuit(cmd) {
		t.Error("expected quit command on ctrl+c")
	}
}

func TestAppLogout(t *testing.T) {
	e := newTestEnv(t)
	e.signIn(t, "ana")

	e.press(t, "L")

	if e.app.screen != screenAuth {
		t.Fatalf("expected auth screen after logout, got %d", e.app.screen)
	}
	if e.app.Session().Authenticated() {
		t.Error("session should be empty after logout")
	}
	saved, _ := e.store.Load(context.Background()) //nolint:errcheck
	if saved != "" {
		t.Errorf("logout should clear the store, has %q", saved)
	}
}

func TestAppDropsResultsFromPreviousSession(t *testing.T) {
	e := newTestEnv(t)
	ana := e.signIn(t, "ana")
	e.srv.AddItem(ana.ID, "lamp", "home")
	bob, bobToken := e.srv.AddUser("bob", "bob@example.com", "secret1")
	e.srv.AddItem(bob.ID, "bike", "sports")

	// ana reloads, but the result is still pending when she logs out.
	model, pending := e.app.Update(key("1"))
	e.app = model.(App)
	e.press(t, "L")

	if err := e.store.Save(context.Background(), bobToken); err != nil {
		t.Fatal(err)
	}
	e.app = run(t, e.app, e.app.checkAuth())
	if got := e.app.Session().UserName(); got != "bob" {
		t.Fatalf("session user = %q, want bob", got)
	}
	// Bring bob's load counter level with ana's pending one.
	e.press(t, "1")

	e.app = run(t, e.app, pending)

	item, err := e.app.swipe.deck.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if item.Title != "lamp" {
		t.Errorf("current item = %q, want lamp (ana's deck leaked into bob's session)", item.Title)
	}
}

func TestAppViewFitsHeight(t *testing.T) {
	e := newTestEnv(t)
	bob, _ := e.srv.AddUser("bob", "bob@example.com", "secret1")
	for i := 0; i < 5; i++ {
		e.srv.AddItem(bob.ID, "thing", "misc")
	}
	e.app.height = 12
	e.signIn(t, "ana")

	if lines := strings.Count(e.app.View(), "\n") + 1; lines > 12 {
		t.Errorf("view has %d lines, want <= 12", lines)
	}
}
