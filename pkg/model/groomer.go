package model

import "time"

// Groomer is a schedulable resource. Roster membership is managed by the
// admin surface; the scheduling core only reads it.
type Groomer struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
