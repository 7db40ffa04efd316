package dashboard

import (
	"strings"

	"github.com/rxstock/rxdash/internal/api"
)

// defaultReorderLevel applies when a medicine has no configured threshold.
const defaultReorderLevel = 10

// greetingFallback is shown before a profile has loaded.
const greetingFallback = "Hey, there"

// FilterMedicines returns the medicines whose name, generic name, or
// category contains query case-insensitively. An empty query matches
// everything. Original relative order is preserved.
func FilterMedicines(meds []api.Medicine, query string) []api.Medicine {
	filtered := make([]api.Medicine, 0, len(meds))
	q := strings.ToLower(query)
	for _, med := range meds {
		if q == "" ||
			strings.Contains(strings.ToLower(med.Name), q) ||
			strings.Contains(strings.ToLower(med.GenericName), q) ||
			strings.Contains(strings.ToLower(med.Category), q) {
			filtered = append(filtered, med)
		}
	}
	return filtered
}

// LowStockItems passes through the snapshot's low stock sub-list.
func LowStockItems(snap *api.AnalyticsSnapshot) []api.Medicine {
	if snap == nil {
		return nil
	}
	return snap.LowStockItems
}

// ExpiringSoonItems passes through the snapshot's expiring soon sub-list.
func ExpiringSoonItems(snap *api.AnalyticsSnapshot) []api.Medicine {
	if snap == nil {
		return nil
	}
	return snap.ExpiringSoonItems
}

// Greeting addresses the user by the first token of their full name.
func Greeting(profile *api.Profile) string {
	if profile == nil {
		return greetingFallback
	}
	fields := strings.Fields(profile.FullName)
	if len(fields) == 0 {
		return greetingFallback
	}
	return "Hey, " + fields[0]
}

// IsLowStock reports whether quantity has fallen to or below the reorder
// level, defaulting the level to 10 when unset.
func IsLowStock(med api.Medicine) bool {
	level := med.ReorderLevel
	if level <= 0 {
		level = defaultReorderLevel
	}
	return med.Quantity <= level
}
