package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"github.com/rxstock/rxdash/internal/api"
	"github.com/rxstock/rxdash/internal/store"
)

// Service owns the session lifecycle and the data it warms: the profile,
// the medicine list, and the analytics snapshot. Every token transition
// clears or refetches that data so nothing from a previous session leaks
// into the next one.
type Service struct {
	store  Store
	api    Gateway
	logger *slog.Logger

	mu        sync.Mutex
	epoch     uint64
	session   Session
	medicines []api.Medicine
	analytics *api.AnalyticsSnapshot
}

// NewService creates a new session service.
func NewService(st Store, gw Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:  st,
		api:    gw,
		logger: logger,
	}
}

// Restore adopts a persisted session at startup. A missing, corrupt, or
// expired record yields unauthenticated state and is never an error.
// Returns true when a session was adopted. Restore does not touch the
// network: dependent data starts cleared and loads through Refresh, whose
// failures the caller can surface.
func (s *Service) Restore(ctx context.Context) bool {
	rec, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("discarding persisted session", "error", err)
		}
		return false
	}

	if tokenExpired(rec.Token) {
		s.logger.Info("persisted session expired")
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear expired session", "error", err)
		}
		return false
	}

	s.adopt(ctx, Session{Token: rec.Token, User: rec.User}, false)
	return true
}

// Login authenticates with email and password. On success the returned
// session replaces the current one, is persisted, and the warm-up burst
// runs. On failure prior state is untouched and the server's error detail
// is returned (fallback: ErrAuthFailed).
func (s *Service) Login(ctx context.Context, email, password string) (*api.Profile, error) {
	resp, err := s.api.Login(ctx, api.Credentials{Email: email, Password: password})
	return s.finishAuth(ctx, resp, err)
}

// Register creates an account and signs in with the returned session.
func (s *Service) Register(ctx context.Context, email, password, fullName, role string) (*api.Profile, error) {
	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     role,
	})
	return s.finishAuth(ctx, resp, err)
}

func (s *Service) finishAuth(ctx context.Context, resp *api.AuthResponse, err error) (*api.Profile, error) {
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		s.logger.Warn("authentication transport failure", "error", err)
		return nil, ErrAuthFailed
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, ErrAuthFailed
	}

	epoch := s.adopt(ctx, Session{Token: resp.AccessToken, User: resp.User}, true)
	s.warmUp(ctx, resp.AccessToken, epoch)
	return resp.User, nil
}

// SignOut clears the token, profile, and all dependent cached data in one
// step and erases the persisted record.
func (s *Service) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	s.session = Session{}
	s.medicines = nil
	s.analytics = nil
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to erase persisted session", "error", err)
	}
	s.logger.Info("signed out")
}

// CreateMedicine adds a record through the gateway and refetches the
// medicine list and analytics so derived views see the new item. When the
// record was created but the refetch failed, the medicine is returned
// alongside the fetch error so the caller can surface it.
func (s *Service) CreateMedicine(ctx context.Context, req api.CreateMedicineRequest) (*api.Medicine, error) {
	token, epoch := s.current()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	med, err := s.api.CreateMedicine(ctx, token, req)
	if err != nil {
		return nil, err
	}

	if err := s.refetchInventory(ctx, token, epoch); err != nil {
		return med, err
	}
	return med, nil
}

// Refresh refetches the medicine list and analytics snapshot for the
// current session. The first fetch failure is returned so the caller can
// show it; data already in state is never cleared by a failed fetch.
func (s *Service) Refresh(ctx context.Context) error {
	token, epoch := s.current()
	if token == "" {
		return ErrNotAuthenticated
	}
	return s.refetchInventory(ctx, token, epoch)
}

// Current returns the session state.
func (s *Service) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Medicines returns the cached medicine list in server order.
func (s *Service) Medicines() []api.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medicines
}

// Analytics returns the cached analytics snapshot, or nil before the first
// successful fetch.
func (s *Service) Analytics() *api.AnalyticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analytics
}

// adopt installs a new session, clearing data cached for the previous one,
// and persists the record when persist is set. Returns the new epoch.
func (s *Service) adopt(ctx context.Context, sess Session, persist bool) uint64 {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.session = sess
	s.medicines = nil
	s.analytics = nil
	s.mu.Unlock()

	if persist {
		rec := store.Record{Token: sess.Token, User: sess.User, SavedAt: time.Now()}
		if err := s.store.Save(ctx, rec); err != nil {
			s.logger.Warn("failed to persist session", "error", err)
		}
	}

	return epoch
}

// warmUp fetches profile, medicines, and analytics concurrently and waits
// for all three. Failures are logged, never surfaced: a partial warm-up
// does not block the dashboard or roll back the session.
func (s *Service) warmUp(ctx context.Context, token string, epoch uint64) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.api.Me(ctx, token)
		if err != nil {
			s.logger.Warn("warm-up profile fetch failed", "error", err)
			return nil
		}
		s.applyProfile(ctx, epoch, profile)
		return nil
	})
	g.Go(func() error {
		meds, err := s.api.Medicines(ctx, token)
		if err != nil {
			s.logger.Warn("warm-up medicines fetch failed", "error", err)
			return nil
		}
		s.applyMedicines(epoch, meds)
		return nil
	})
	g.Go(func() error {
		snap, err := s.api.DashboardAnalytics(ctx, token)
		if err != nil {
			s.logger.Warn("warm-up analytics fetch failed", "error", err)
			return nil
		}
		s.applyAnalytics(epoch, snap)
		return nil
	})

	_ = g.Wait()
}

// refetchInventory reloads medicines and analytics concurrently and
// returns the first fetch failure. Both fetches always run to completion
// (no sibling cancellation) so a failed one never blanks the other's
// result, and a failure leaves previously loaded data in place.
func (s *Service) refetchInventory(ctx context.Context, token string, epoch uint64) error {
	var g errgroup.Group

	g.Go(func() error {
		meds, err := s.api.Medicines(ctx, token)
		if err != nil {
			s.logger.Warn("medicines refetch failed", "error", err)
			return err
		}
		s.applyMedicines(epoch, meds)
		return nil
	})
	g.Go(func() error {
		snap, err := s.api.DashboardAnalytics(ctx, token)
		if err != nil {
			s.logger.Warn("analytics refetch failed", "error", err)
			return err
		}
		s.applyAnalytics(epoch, snap)
		return nil
	})

	return g.Wait()
}

func (s *Service) current() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token, s.epoch
}

// The apply helpers drop responses whose epoch no longer matches: the
// session was signed out or replaced while the request was in flight.

func (s *Service) applyProfile(ctx context.Context, epoch uint64, profile *api.Profile) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.session.User = profile
	rec := store.Record{Token: s.session.Token, User: profile, SavedAt: time.Now()}
	s.mu.Unlock()

	// Keep the persisted record in sync with the freshest profile.
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to persist refreshed profile", "error", err)
	}
}

func (s *Service) applyMedicines(epoch uint64, meds []api.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.medicines = meds
}

func (s *Service) applyAnalytics(epoch uint64, snap *api.AnalyticsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.analytics = snap
}

// tokenExpired inspects a restored token's exp claim without verifying the
// signature (the backend remains the authority). Tokens that are not JWTs
// or carry no expiry are accepted as-is.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
