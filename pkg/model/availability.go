package model

// SlotAvailability is one cell of the day grid: a (time, groomer) pair and
// whether it can still be booked.
type SlotAvailability struct {
	Time      string `json:"time"`
	GroomerID string `json:"groomer_id"`
	Available bool   `json:"available"`
}

// DayAvailability is the full grid for one date, recomputed from the ledger
// on every request.
type DayAvailability struct {
	Date  string             `json:"date"`
	Slots []SlotAvailability `json:"slots"`
}
