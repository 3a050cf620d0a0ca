// Package fakeapi is an in-memory bartr API for tests. It follows the real
// server's routes, status codes and error bodies closely enough for the
// client, session and tui packages to run full flows against it.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/naveenspark/bartr/pkg/domain"
)

// SwipeRecord is a swipe as received, kept in arrival order.
type SwipeRecord struct {
	UserID    int
	ItemID    int
	Direction domain.Direction
}

type account struct {
	user     domain.User
	password string
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account // by email
	tokens    map[string]int      // token -> user id
	items     []domain.Item
	swipes    []SwipeRecord
	matches   []domain.Match
	nextID    int
	failPaths map[string]int // "METHOD /path" -> status
}

// New starts a fake API. Close it when done.
func New() *Server {
	s := &Server{
		accounts:  make(map[string]*account),
		tokens:    make(map[string]int),
		failPaths: make(map[string]int),
		nextID:    1,
	}

	r := mux.NewRouter()
	r.Use(s.failures)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.auth)
	api.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	api.HandleFunc("/items", s.handleListItems).Methods(http.MethodGet)
	api.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}", s.handleDeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/swipes", s.handleSwipe).Methods(http.MethodPost)
	api.HandleFunc("/matches", s.handleMatches).Methods(http.MethodGet)
	api.HandleFunc("/comments", s.handleComment).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers a user directly and returns it with a valid token.
func (s *Server) AddUser(name, email, password string) (domain.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.addUserLocked(name, email, password)
	return u, s.issueTokenLocked(u.ID)
}

// AddItem lists an item for ownerID.
func (s *Server) AddItem(ownerID int, title, category string) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addItemLocked(domain.Item{UserID: ownerID, Title: title, Category: category})
}

// Swipes returns a copy of every swipe received, in order.
func (s *Server) Swipes() []SwipeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SwipeRecord(nil), s.swipes...)
}

// Items returns a copy of all items.
func (s *Server) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item(nil), s.items...)
}

// Fail makes every request matching method and path answer with status
// until ClearFailures is called.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPaths[method+" "+path] = status
}

// ClearFailures removes every injected failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPaths = make(map[string]int)
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]int)
}

// --- middleware ---

func (s *Server) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failPaths[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		s.mu.Lock()
		uid, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		r.Header.Set("X-Fake-User", strconv.Itoa(uid))
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) int {
	id, _ := strconv.Atoi(r.Header.Get("X-Fake-User")) //nolint:errcheck // set by auth middleware
	return id
}

// --- handlers ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "user with this email already exists")
		return
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, domain.AuthResponse{Token: s.issueTokenLocked(u.ID), User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Email]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResponse{Token: s.issueTokenLocked(acc.user.ID), User: acc.user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == uid {
			writeJSON(w, http.StatusOK, acc.user)
			return
		}
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	excludeOwn := r.URL.Query().Get("exclude_own") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if excludeOwn && (it.UserID == uid || s.swipedLocked(uid, it.ID)) {
			continue
		}
		out = append(out, it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		ImageURL    string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.addItemLocked(domain.Item{
		UserID:      userID(r),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"]) //nolint:errcheck // route regexp guarantees digits
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id && it.UserID == uid {
			s.items = append(s.items[:i], s.items[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
			return
		}
	}
	writeError(w, http.StatusForbidden, "item not found or not owned by user")
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID    int              `json:"item_id"`
		Direction domain.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Direction.Valid() {
		writeError(w, http.StatusBadRequest, "direction must be 'left' or 'right'")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipes = append(s.swipes, SwipeRecord{UserID: uid, ItemID: req.ItemID, Direction: req.Direction})
	if req.Direction == domain.DirectionRight {
		s.matchLocked(uid, req.ItemID)
	}
	writeJSON(w, http.StatusCreated, domain.Swipe{
		ID:        len(s.swipes),
		UserID:    uid,
		ItemID:    req.ItemID,
		Direction: req.Direction,
		CreatedAt: time.Now(),
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Match, 0)
	for _, m := range s.matches {
		if m.User1ID == uid || m.User2ID == uid {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MatchID int    `json:"match_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MatchID == 0 || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	uid := userID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matches {
		m := &s.matches[i]
		if m.ID != req.MatchID {
			continue
		}
		if m.User1ID != uid && m.User2ID != uid {
			writeError(w, http.StatusForbidden, "you are not part of this match")
			return
		}
		c := domain.Comment{
			ID:        s.nextIDLocked(),
			MatchID:   m.ID,
			UserID:    uid,
			UserName:  s.nameLocked(uid),
			Content:   req.Content,
			CreatedAt: time.Now(),
		}
		m.Comments = append(m.Comments, c)
		writeJSON(w, http.StatusCreated, c)
		return
	}
	writeError(w, http.StatusForbidden, "you are not part of this match")
}

// --- state helpers, mu held ---

func (s *Server) nextIDLocked() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) addUserLocked(name, email, password string) domain.User {
	u := domain.User{ID: s.nextIDLocked(), Name: name, Email: email, CreatedAt: time.Now()}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

func (s *Server) issueTokenLocked(uid int) string {
	token := "tok-" + strconv.Itoa(uid) + "-" + strconv.Itoa(s.nextIDLocked())
	s.tokens[token] = uid
	return token
}

func (s *Server) addItemLocked(it domain.Item) domain.Item {
	it.ID = s.nextIDLocked()
	it.OwnerName = s.nameLocked(it.UserID)
	it.CreatedAt = time.Now()
	s.items = append(s.items, it)
	return it
}

func (s *Server) nameLocked(uid int) string {
	for _, acc := range s.accounts {
		if acc.user.ID == uid {
			return acc.user.Name
		}
	}
	return ""
}

func (s *Server) itemLocked(id int) (domain.Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}

func (s *Server) swipedLocked(uid, itemID int) bool {
	for _, sw := range s.swipes {
		if sw.UserID == uid && sw.ItemID == itemID {
			return true
		}
	}
	return false
}

// matchLocked creates a match when the owner of itemID has already swiped
// right on one of uid's items.
func (s *Server) matchLocked(uid, itemID int) {
	target, ok := s.itemLocked(itemID)
	if !ok || target.UserID == uid {
		return
	}
	for _, sw := range s.swipes {
		if sw.UserID != target.UserID || sw.Direction != domain.DirectionRight {
			continue
		}
		mine, ok := s.itemLocked(sw.ItemID)
		if !ok || mine.UserID != uid {
			continue
		}
		s.matches = append(s.matches, domain.Match{
			ID:         s.nextIDLocked(),
			User1ID:    uid,
			User2ID:    target.UserID,
			Item1ID:    mine.ID,
			Item2ID:    target.ID,
			Item1Title: mine.Title,
			Item2Title: target.Title,
			User1Name:  s.nameLocked(uid),
			User2Name:  s.nameLocked(target.UserID),
			CreatedAt:  time.Now(),
		})
		return
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
