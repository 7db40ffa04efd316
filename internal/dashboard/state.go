package dashboard

import (
	"time"

	"github.com/rxstock/rxdash/internal/api"
)

// Tab identifies a dashboard view.
type Tab string

const (
	TabInventory Tab = "inventory"
	TabAnalytics Tab = "analytics"
	TabAdd       Tab = "add"
)

// Draft is the in-progress create-medicine form state.
type Draft struct {
	Name         string
	GenericName  string
	Category     string
	Manufacturer string
	Quantity     int
	Unit         string
	ReorderLevel int
	UnitPrice    float64
	BatchNumber  string
	ExpiryDate   time.Time
	Location     string
	Description  string
}

// NewDraft returns a draft with form defaults: empty quantities and a
// six-month expiry horizon.
func NewDraft(now time.Time) Draft {
	return Draft{
		Quantity:     0,
		ReorderLevel: defaultReorderLevel,
		UnitPrice:    0,
		ExpiryDate:   now.AddDate(0, 6, 0),
	}
}

// Request converts the draft into a create request for the gateway.
func (d Draft) Request() api.CreateMedicineRequest {
	return api.CreateMedicineRequest{
		Name:         d.Name,
		GenericName:  d.GenericName,
		Category:     d.Category,
		Manufacturer: d.Manufacturer,
		Quantity:     d.Quantity,
		Unit:         d.Unit,
		ReorderLevel: d.ReorderLevel,
		UnitPrice:    d.UnitPrice,
		BatchNumber:  d.BatchNumber,
		ExpiryDate:   d.ExpiryDate,
		Location:     d.Location,
		Description:  d.Description,
	}
}

// State holds the dashboard UI state for one session: active tab, search
// text, and the create-form draft. Data state (medicines, analytics,
// profile) lives with the session manager.
type State struct {
	ActiveTab Tab
	Search    string
	Draft     Draft
}

// NewState returns the startup UI state.
func NewState(now time.Time) *State {
	return &State{
		ActiveTab: TabInventory,
		Draft:     NewDraft(now),
	}
}

// SetTab switches the active tab.
func (s *State) SetTab(tab Tab) {
	s.ActiveTab = tab
}

// SetSearch updates the inventory search text.
func (s *State) SetSearch(query string) {
	s.Search = query
}

// ResetDraft restores form defaults after a successful submission.
func (s *State) ResetDraft(now time.Time) {
	s.Draft = NewDraft(now)
}
