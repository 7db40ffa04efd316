package session

import (
	"context"

	"github.com/rxstock/rxdash/internal/api"
	"github.com/rxstock/rxdash/internal/store"
)

// Store persists the session record across restarts.
type Store interface {
	Save(ctx context.Context, rec store.Record) error
	Load(ctx context.Context) (*store.Record, error)
	Clear(ctx context.Context) error
}

// Gateway is the authenticated request boundary to the backend.
type Gateway interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*api.Profile, error)
	Medicines(ctx context.Context, token string) ([]api.Medicine, error)
	CreateMedicine(ctx context.Context, token string, req api.CreateMedicineRequest) (*api.Medicine, error)
	DashboardAnalytics(ctx context.Context, token string) (*api.AnalyticsSnapshot, error)
}
