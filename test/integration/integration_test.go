package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rxstock/rxdash/internal/api"
	"github.com/rxstock/rxdash/internal/apitest"
	"github.com/rxstock/rxdash/internal/dashboard"
	"github.com/rxstock/rxdash/internal/session"
	"github.com/rxstock/rxdash/internal/store"
)

func newSessionStore(t *testing.T) *store.SessionStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return store.NewSessionStore(db)
}

func TestFullDashboardFlow(t *testing.T) {
	ctx := context.Background()

	backend := apitest.New(t)
	client := api.New(backend.URL(), 5*time.Second, nil)
	sessions := newSessionStore(t)
	svc := session.NewService(sessions, client, nil)

	// Register and land on a warm dashboard.
	profile, err := svc.Register(ctx, "ada@example.com", "secret", "Ada Lovelace", "pharmacist")
	require.NoError(t, err)
	require.Equal(t, "Hey, Ada", dashboard.Greeting(profile))
	require.True(t, svc.Current().Authenticated())

	// Create a medicine below its reorder level.
	med, err := svc.CreateMedicine(ctx, api.CreateMedicineRequest{
		Name:         "Amoxicillin",
		GenericName:  "Amoxicillin",
		Category:     "Antibiotic",
		Quantity:     5,
		Unit:         "box",
		ReorderLevel: 10,
		UnitPrice:    3.2,
		ExpiryDate:   time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	require.True(t, dashboard.IsLowStock(*med))

	// The refetched list and analytics see the new item.
	meds := svc.Medicines()
	require.Len(t, meds, 1)
	require.Equal(t, med.ID, meds[0].ID)

	lowStock := dashboard.LowStockItems(svc.Analytics())
	require.Len(t, lowStock, 1)
	require.Equal(t, "Amoxicillin", lowStock[0].Name)

	// Searching filters case-insensitively.
	require.Len(t, dashboard.FilterMedicines(meds, "ANTIBIO"), 1)
	require.Empty(t, dashboard.FilterMedicines(meds, "insulin"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	backend := apitest.New(t)
	client := api.New(backend.URL(), 5*time.Second, nil)
	sessions := newSessionStore(t)

	svc := session.NewService(sessions, client, nil)
	_, err := svc.Register(ctx, "ada@example.com", "secret", "Ada Lovelace", "pharmacist")
	require.NoError(t, err)
	token := svc.Current().Token

	// A fresh service over the same store restores the same session.
	restored := session.NewService(sessions, client, nil)
	require.True(t, restored.Restore(ctx))
	sess := restored.Current()
	require.Equal(t, token, sess.Token)
	require.Equal(t, "Ada Lovelace", sess.User.FullName)
}

func TestSignOutEndsTheSession(t *testing.T) {
	ctx := context.Background()

	backend := apitest.New(t)
	client := api.New(backend.URL(), 5*time.Second, nil)
	sessions := newSessionStore(t)

	svc := session.NewService(sessions, client, nil)
	_, err := svc.Register(ctx, "ada@example.com", "secret", "Ada Lovelace", "pharmacist")
	require.NoError(t, err)

	svc.SignOut(ctx)
	require.False(t, svc.Current().Authenticated())
	require.Empty(t, svc.Medicines())
	require.Nil(t, svc.Analytics())

	// A restart finds nothing to restore.
	fresh := session.NewService(sessions, client, nil)
	require.False(t, fresh.Restore(ctx))
}

func TestRevokedSessionSurfacesServerDetail(t *testing.T) {
	ctx := context.Background()

	backend := apitest.New(t)
	client := api.New(backend.URL(), 5*time.Second, nil)
	sessions := newSessionStore(t)

	// A persisted token the backend no longer recognizes.
	require.NoError(t, sessions.Save(ctx, store.Record{
		Token: "revoked-token",
		User:  &api.Profile{Email: "ada@example.com", FullName: "Ada Lovelace"},
	}))

	svc := session.NewService(sessions, client, nil)
	require.True(t, svc.Restore(ctx))

	// The fetch failure carries the backend's detail text verbatim.
	err := svc.Refresh(ctx)
	require.EqualError(t, err, "Could not validate credentials")
	require.Empty(t, svc.Medicines())
}

func TestBadCredentialsSurfaceServerDetail(t *testing.T) {
	ctx := context.Background()

	backend := apitest.New(t)
	backend.AddUser("ada@example.com", "secret", "Ada Lovelace", "pharmacist")
	client := api.New(backend.URL(), 5*time.Second, nil)
	svc := session.NewService(newSessionStore(t), client, nil)

	_, err := svc.Login(ctx, "ada@example.com", "wrong")
	require.EqualError(t, err, "Incorrect email or password")
	require.False(t, svc.Current().Authenticated())
}
