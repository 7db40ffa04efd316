package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rxstock/rxdash/internal/api"
	"github.com/rxstock/rxdash/internal/config"
	"github.com/rxstock/rxdash/internal/dashboard"
	"github.com/rxstock/rxdash/internal/session"
	"github.com/rxstock/rxdash/internal/store"
)

const usage = `usage: rxdash <command> [flags]

commands:
  login      -email -password
  register   -email -password -name [-role]
  logout
  status
  medicines  [-search]
  analytics
  add        -name [-generic -category -manufacturer -quantity -unit
             -reorder -price -batch -expiry -location -description]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureStoreDir(cfg.Store.Path); err != nil {
		logger.Error("failed to prepare store path", "error", err)
		os.Exit(1)
	}

	db, err := store.New(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("failed to migrate session store", "error", err)
		os.Exit(1)
	}

	app := &app{
		sessions: session.NewService(store.NewSessionStore(db), api.New(cfg.API.BaseURL, cfg.API.Timeout, logger), logger),
		notices:  dashboard.NewNotifier(),
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		app.notices.Show(err.Error(), dashboard.VariantError)
		app.printNotice()
		os.Exit(1)
	}
	app.printNotice()
}

type app struct {
	sessions *session.Service
	notices  *dashboard.Notifier
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status(ctx)
	case "medicines":
		return a.medicines(ctx, args)
	case "analytics":
		return a.analytics(ctx)
	case "add":
		return a.add(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	profile, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	a.notices.Show("Logged in", dashboard.VariantInfo)
	fmt.Println(dashboard.Greeting(profile))
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "full name")
	role := fs.String("role", "staff", "account role")
	fs.Parse(args)

	profile, err := a.sessions.Register(ctx, *email, *password, *name, *role)
	if err != nil {
		return err
	}

	a.notices.Show("Registered", dashboard.VariantInfo)
	fmt.Println(dashboard.Greeting(profile))
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.sessions.Restore(ctx)
	a.sessions.SignOut(ctx)
	a.notices.Show("Signed out", dashboard.VariantInfo)
	return nil
}

func (a *app) status(ctx context.Context) error {
	if !a.sessions.Restore(ctx) {
		fmt.Println("Not signed in")
		return nil
	}
	sess := a.sessions.Current()
	fmt.Println(dashboard.Greeting(sess.User))
	if sess.User != nil {
		fmt.Printf("Signed in as %s (%s)\n", sess.User.Email, sess.User.Role)
	}
	return nil
}

func (a *app) medicines(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("medicines", flag.ExitOnError)
	search := fs.String("search", "", "filter by name, generic name, or category")
	fs.Parse(args)

	if !a.sessions.Restore(ctx) {
		return session.ErrNotAuthenticated
	}
	if err := a.sessions.Refresh(ctx); err != nil {
		return err
	}

	meds := dashboard.FilterMedicines(a.sessions.Medicines(), *search)
	if len(meds) == 0 {
		fmt.Println("No medicines found")
		return nil
	}

	for _, med := range meds {
		marker := ""
		if dashboard.IsLowStock(med) {
			marker = "  LOW"
		}
		fmt.Printf("%-6d %-24s %-16s %4d %-8s %8.2f  %s%s\n",
			med.ID, med.Name, med.Category, med.Quantity, med.Unit,
			med.UnitPrice, med.ExpiryDate.Format("2006-01-02"), marker)
	}
	return nil
}

func (a *app) analytics(ctx context.Context) error {
	if !a.sessions.Restore(ctx) {
		return session.ErrNotAuthenticated
	}
	if err := a.sessions.Refresh(ctx); err != nil {
		return err
	}

	snap := a.sessions.Analytics()
	if snap == nil {
		fmt.Println("No analytics available")
		return nil
	}

	fmt.Printf("Total medicines: %d\n", snap.TotalMedicines)
	fmt.Printf("Low stock:       %d\n", snap.LowStockCount)
	fmt.Printf("Expiring soon:   %d\n", snap.ExpiringSoonCount)
	fmt.Printf("Expired:         %d\n", snap.ExpiredCount)
	fmt.Printf("Total value:     %.2f\n", snap.TotalValue)

	for _, med := range dashboard.LowStockItems(snap) {
		fmt.Printf("  low stock: %s (%d left, reorder at %d)\n", med.Name, med.Quantity, med.ReorderLevel)
	}
	for _, med := range dashboard.ExpiringSoonItems(snap) {
		fmt.Printf("  expiring:  %s (%s)\n", med.Name, med.ExpiryDate.Format("2006-01-02"))
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	draft := dashboard.NewDraft(time.Now())

	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fs.StringVar(&draft.Name, "name", "", "medicine name")
	fs.StringVar(&draft.GenericName, "generic", "", "generic name")
	fs.StringVar(&draft.Category, "category", "", "category")
	fs.StringVar(&draft.Manufacturer, "manufacturer", "", "manufacturer")
	fs.IntVar(&draft.Quantity, "quantity", draft.Quantity, "quantity on hand")
	fs.StringVar(&draft.Unit, "unit", "", "unit of measure")
	fs.IntVar(&draft.ReorderLevel, "reorder", draft.ReorderLevel, "reorder level")
	fs.Float64Var(&draft.UnitPrice, "price", draft.UnitPrice, "unit price")
	fs.StringVar(&draft.BatchNumber, "batch", "", "batch number")
	expiry := fs.String("expiry", draft.ExpiryDate.Format("2006-01-02"), "expiry date (YYYY-MM-DD)")
	fs.StringVar(&draft.Location, "location", "", "storage location")
	fs.StringVar(&draft.Description, "description", "", "description")
	fs.Parse(args)

	if draft.Name == "" {
		return fmt.Errorf("medicine name is required")
	}
	expiryDate, err := time.Parse("2006-01-02", *expiry)
	if err != nil {
		return fmt.Errorf("invalid expiry date: %w", err)
	}
	draft.ExpiryDate = expiryDate

	if !a.sessions.Restore(ctx) {
		return session.ErrNotAuthenticated
	}

	med, err := a.sessions.CreateMedicine(ctx, draft.Request())
	if med != nil {
		a.notices.Show(fmt.Sprintf("Added %s", med.Name), dashboard.VariantInfo)
	}
	if err != nil {
		// Created-but-refetch-failed still reports the fetch error; the
		// error notice replaces the "Added" one.
		return err
	}
	return nil
}

func (a *app) printNotice() {
	notice := a.notices.Current()
	if notice == nil {
		return
	}
	prefix := ""
	if notice.Variant == dashboard.VariantError {
		prefix = "error: "
	}
	fmt.Printf("%s%s\n", prefix, notice.Message)
}

func ensureStoreDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
