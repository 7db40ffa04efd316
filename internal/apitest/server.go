package apitest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rxstock/rxdash/internal/api"
)

// Server is an in-memory pharmacy backend for tests. It implements the six
// endpoints the client consumes, with bearer tokens issued at login.
type Server struct {
	HTTP *httptest.Server

	mu        sync.Mutex
	users     map[string]*user
	tokens    map[string]string // token -> email
	medicines []api.Medicine
	nextID    int64
}

type user struct {
	passwordHash string
	profile      api.Profile
}

// New starts a fake backend and registers cleanup with the test.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		users:  make(map[string]*user),
		tokens: make(map[string]string),
		nextID: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)
	mux.HandleFunc("GET /api/medicines", s.handleListMedicines)
	mux.HandleFunc("POST /api/medicines", s.handleCreateMedicine)
	mux.HandleFunc("GET /api/analytics/dashboard", s.handleAnalytics)

	s.HTTP = httptest.NewServer(mux)
	t.Cleanup(s.HTTP.Close)

	return s
}

// URL returns the backend base address.
func (s *Server) URL() string {
	return s.HTTP.URL
}

// AddUser registers an account directly, bypassing the endpoint.
func (s *Server) AddUser(email, password, fullName, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &user{
		passwordHash: hashPassword(password),
		profile:      api.Profile{Email: email, FullName: fullName, Role: role},
	}
}

// AddMedicine seeds an inventory record directly, assigning an ID.
func (s *Server) AddMedicine(med api.Medicine) api.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	med.ID = s.nextID
	s.nextID++
	s.medicines = append(s.medicines, med)
	return med
}

// IssueToken mints a token for an existing user, as login would.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = email
	return token
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	u := &user{
		passwordHash: hashPassword(req.Password),
		profile:      api.Profile{Email: req.Email, FullName: req.FullName, Role: req.Role},
	}
	s.users[req.Email] = u

	token := uuid.NewString()
	s.tokens[token] = req.Email

	writeJSON(w, http.StatusOK, api.AuthResponse{AccessToken: token, User: &u.profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[creds.Email]
	if !ok || u.passwordHash != hashPassword(creds.Password) {
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = creds.Email

	writeJSON(w, http.StatusOK, api.AuthResponse{AccessToken: token, User: &u.profile})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, u.profile)
}

func (s *Server) handleListMedicines(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	s.mu.Lock()
	meds := make([]api.Medicine, len(s.medicines))
	copy(meds, s.medicines)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, meds)
}

func (s *Server) handleCreateMedicine(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req api.CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	med := api.Medicine{
		ID:           s.nextID,
		Name:         req.Name,
		GenericName:  req.GenericName,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		UnitPrice:    req.UnitPrice,
		BatchNumber:  req.BatchNumber,
		ExpiryDate:   req.ExpiryDate,
		Location:     req.Location,
		Description:  req.Description,
	}
	s.nextID++
	s.medicines = append(s.medicines, med)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, med)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	soon := now.AddDate(0, 0, 30)
	snap := api.AnalyticsSnapshot{
		TotalMedicines:    len(s.medicines),
		LowStockItems:     []api.Medicine{},
		ExpiringSoonItems: []api.Medicine{},
	}
	for _, med := range s.medicines {
		level := med.ReorderLevel
		if level <= 0 {
			level = 10
		}
		if med.Quantity <= level {
			snap.LowStockItems = append(snap.LowStockItems, med)
		}
		switch {
		case med.ExpiryDate.Before(now):
			snap.ExpiredCount++
		case med.ExpiryDate.Before(soon):
			snap.ExpiringSoonItems = append(snap.ExpiringSoonItems, med)
		}
		snap.TotalValue += float64(med.Quantity) * med.UnitPrice
	}
	snap.LowStockCount = len(snap.LowStockItems)
	snap.ExpiringSoonCount = len(snap.ExpiringSoonItems)

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) authenticate(r *http.Request) (*user, bool) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.users[email]
	return u, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
