package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/bartr/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login sent Authorization header %q, want none", r.Header.Get("Authorization"))
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "ann@example.com" || req.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			Token: "tok-1",
			User:  domain.User{ID: 4, Name: "Ann", Email: req.Email},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Token = %q, want %q", resp.Token, "tok-1")
	}
	if resp.User.ID != 4 || resp.User.Name != "Ann" {
		t.Errorf("User = %+v, want id 4 named Ann", resp.User)
	}

	_, err = c.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "nope"})
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(err, 401) = false for %v", err)
	}
	if msg, ok := ErrorMessage(err); !ok || msg != "invalid credentials" {
		t.Errorf("ErrorMessage() = %q, %v; want %q, true", msg, ok, "invalid credentials")
	}
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user with this email already exists"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "hunter22"})
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "already exists") {
		t.Errorf("error = %q, want it to contain 'already exists'", got)
	}
}

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 3, Name: "Bo"}) //nolint:errcheck
	}))
	defer srv.Close()

	me, err := New(srv.URL, "test-token").GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.ID != 3 || me.Name != "Bo" {
		t.Errorf("GetMe() = %+v, want id 3 named Bo", me)
	}

	_, err = New(srv.URL, "bad-token").GetMe(context.Background())
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
}

func TestWithTokenLeavesOriginalUntouched(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	base := New(srv.URL, "")
	authed := base.WithToken("abc")
	if _, err := authed.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if _, err := base.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "Bearer abc" || seen[1] != "" {
		t.Errorf("Authorization headers = %q, want [\"Bearer abc\" \"\"]", seen)
	}
}

func TestListItems_ExcludeOwn(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			http.NotFound(w, r)
			return
		}
		queries = append(queries, r.URL.RawQuery)
		json.NewEncoder(w).Encode([]domain.Item{ //nolint:errcheck
			{ID: 1, UserID: 2, Title: "kayak", OwnerName: "Cy"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	items, err := c.ListItems(context.Background(), true)
	if err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if len(items) != 1 || items[0].OwnerName != "Cy" {
		t.Errorf("items = %+v, want one kayak owned by Cy", items)
	}
	if _, err := c.ListItems(context.Background(), false); err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if len(queries) != 2 || queries[0] != "exclude_own=true" || queries[1] != "" {
		t.Errorf("queries = %q, want [exclude_own=true, \"\"]", queries)
	}
}

func TestCreateAndDeleteItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/items":
			var req CreateItemRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.Item{ID: 9, Title: req.Title, ImageURL: req.ImageURL}) //nolint:errcheck
		case r.Method == http.MethodDelete && r.URL.Path == "/items/9":
			json.NewEncoder(w).Encode(map[string]string{"message": "Item deleted"}) //nolint:errcheck
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "item not found or not owned by user"}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	item, err := c.CreateItem(context.Background(), CreateItemRequest{Title: "tent", ImageURL: "http://img/tent.png"})
	if err != nil {
		t.Fatalf("CreateItem() error: %v", err)
	}
	if item.ID != 9 || item.Title != "tent" {
		t.Errorf("item = %+v, want id 9 titled tent", item)
	}
	if err := c.DeleteItem(context.Background(), 9); err != nil {
		t.Errorf("DeleteItem(9) error: %v", err)
	}
	if err := c.DeleteItem(context.Background(), 10); !IsStatus(err, http.StatusForbidden) {
		t.Errorf("DeleteItem(10) = %v, want 403", err)
	}
}

func TestCreateSwipe(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/swipes" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Swipe{ID: 1, ItemID: 5, Direction: domain.DirectionRight}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.CreateSwipe(context.Background(), 5, domain.DirectionRight); err != nil {
		t.Fatalf("CreateSwipe() error: %v", err)
	}
	if got["item_id"] != float64(5) || got["direction"] != "right" {
		t.Errorf("request body = %v, want item_id 5 direction right", got)
	}

	got = nil
	if _, err := c.CreateSwipe(context.Background(), 5, "up"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if got != nil {
		t.Error("invalid direction must not reach the server")
	}
}

func TestListMatchesAndComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches":
			json.NewEncoder(w).Encode([]domain.Match{{ //nolint:errcheck
				ID: 2, User1ID: 1, User2ID: 3,
				Comments: []domain.Comment{{UserName: "Ann", Content: "hi"}},
			}})
		case "/comments":
			var body struct {
				MatchID int    `json:"match_id"`
				Content string `json:"content"`
			}
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.Comment{ID: 8, MatchID: body.MatchID, Content: body.Content}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	matches, err := c.ListMatches(context.Background())
	if err != nil {
		t.Fatalf("ListMatches() error: %v", err)
	}
	if len(matches) != 1 || len(matches[0].Comments) != 1 {
		t.Fatalf("matches = %+v, want one match with one comment", matches)
	}
	comment, err := c.CreateComment(context.Background(), 2, "deal?")
	if err != nil {
		t.Fatalf("CreateComment() error: %v", err)
	}
	if comment.MatchID != 2 || comment.Content != "deal?" {
		t.Errorf("comment = %+v, want match 2 content deal?", comment)
	}
}

func TestRequestIDHeader(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.ListMatches(context.Background())
	_, _ = c.ListMatches(context.Background())

	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Fatalf("request ids = %q, want two distinct non-empty ids", ids)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.RequestID != ids[0] {
		t.Errorf("RequestID = %q, want %q", httpErr.RequestID, ids[0])
	}
	if httpErr.Message != "boom" {
		t.Errorf("Message = %q, want %q", httpErr.Message, "boom")
	}
}

func TestErrorMessage_Transport(t *testing.T) {
	if _, ok := ErrorMessage(errors.New("dial tcp: refused")); ok {
		t.Error("ErrorMessage() ok = true for a transport error")
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)              // slow server
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if _, err := c.GetMe(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestWithTimeout(t *testing.T) {
	c := New("http://example.invalid", "", WithTimeout(2*time.Second))
	if c.httpClient.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", c.httpClient.Timeout)
	}
}
