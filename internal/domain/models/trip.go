package models

import "time"

// Trip statuses. Transitions are monotonic except cancellation:
// draft -> dispatched -> completed; draft/dispatched -> cancelled.
const (
	TripDraft      = "draft"
	TripDispatched = "dispatched"
	TripCompleted  = "completed"
	TripCancelled  = "cancelled"
)

type Trip struct {
	ID          int64      `json:"id"`
	VehicleID   int64      `json:"vehicle_id"`
	DriverID    *int64     `json:"driver_id"` // nil after the driver is deleted
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	CargoWeight float64    `json:"cargo_weight"`
	Distance    float64    `json:"distance"`
	Revenue     float64    `json:"revenue"`
	Status      string     `json:"status"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CanCancel reports whether cancellation is legal from the current state.
func (t Trip) CanCancel() bool {
	return t.Status == TripDraft || t.Status == TripDispatched
}
