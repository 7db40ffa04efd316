package api

import "time"

// Profile is the server-supplied user record. It is replaced wholesale on
// every successful fetch, never partially mutated.
type Profile struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Medicine is one inventory record as returned by the backend.
type Medicine struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name"`
	Category     string    `json:"category"`
	Manufacturer string    `json:"manufacturer"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	ReorderLevel int       `json:"reorder_level"`
	UnitPrice    float64   `json:"unit_price"`
	BatchNumber  string    `json:"batch_number"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
}

// AnalyticsSnapshot is the server-computed aggregate view of inventory
// health. The client treats it as opaque and replaces it wholesale.
type AnalyticsSnapshot struct {
	TotalMedicines    int        `json:"total_medicines"`
	LowStockCount     int        `json:"low_stock_count"`
	ExpiringSoonCount int        `json:"expiring_soon_count"`
	ExpiredCount      int        `json:"expired_count"`
	TotalValue        float64    `json:"total_value"`
	LowStockItems     []Medicine `json:"low_stock_items"`
	ExpiringSoonItems []Medicine `json:"expiring_soon_items"`
}

// CreateMedicineRequest carries the fields for a new medicine record.
type CreateMedicineRequest struct {
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name"`
	Category     string    `json:"category"`
	Manufacturer string    `json:"manufacturer"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	ReorderLevel int       `json:"reorder_level"`
	UnitPrice    float64   `json:"unit_price"`
	BatchNumber  string    `json:"batch_number"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
}

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries account creation inputs.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        *Profile `json:"user"`
}
