package model

import "time"

// SlotHold is a short-lived claim on a slot while a customer completes the
// booking form. Holds are advisory: the booking ledger's unique index is the
// sole authority at commit time. Losing holds on restart is acceptable.
type SlotHold struct {
	ID              string    `json:"id" bson:"_id"`
	AppointmentDate string    `json:"appointment_date" bson:"appointment_date"`
	AppointmentTime string    `json:"appointment_time" bson:"appointment_time"`
	GroomerID       string    `json:"groomer_id" bson:"groomer_id"`
	ExpiresAt       time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// Expired reports whether the hold should be treated as absent.
func (h *SlotHold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
