package model

import "time"

// LoadStatus is the lifecycle state of a freight load.
type LoadStatus string

const (
	LoadStatusAvailable LoadStatus = "available"
	LoadStatusAssigned  LoadStatus = "assigned"
	LoadStatusCompleted LoadStatus = "completed"
	LoadStatusCancelled LoadStatus = "cancelled"
)

// Load is one open-freight offer from a booking office. TruckType, TruckLength,
// and Tonnage are free text as posted (e.g. "25 ft", "8mt") and are compared
// fuzzily; they are never re-validated here.
type Load struct {
	ID            string     `json:"id"`
	BookingOffice string     `json:"booking_office,omitempty"`
	PostedAt      time.Time  `json:"posted_at,omitempty"`
	FromLocation  string     `json:"from_location"`
	ToLocation    string     `json:"to_location"`
	TruckType     string     `json:"truck_type"`
	TruckLength   string     `json:"truck_length,omitempty"`
	Tonnage       string     `json:"tonnage,omitempty"`
	Product       string     `json:"product"`
	Price         *float64   `json:"price,omitempty"`
	NumTrucks     int        `json:"num_trucks,omitempty"`
	ETA           string     `json:"eta,omitempty"`
	Status        LoadStatus `json:"status"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
}

// Matchable reports whether the load can be offered to a trucker.
func (l *Load) Matchable() bool {
	return l.Status == LoadStatusAvailable
}
