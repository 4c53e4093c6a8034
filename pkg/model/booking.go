package model

import (
	"time"
)

// Booking is a committed grooming appointment. Bookings are never deleted;
// cancellation is a status transition so the audit trail survives.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AppointmentDate string    `json:"appointment_date" bson:"appointment_date" validate:"required,slot_date"`
	AppointmentTime string    `json:"appointment_time" bson:"appointment_time" validate:"required,slot_time"`
	GroomerID       string    `json:"groomer_id" bson:"groomer_id" validate:"required,mongodb"`
	PetName         string    `json:"pet_name" bson:"pet_name" validate:"required,min=1,max=100"`
	PetBreed        string    `json:"pet_breed,omitempty" bson:"pet_breed,omitempty" validate:"omitempty,max=100"`
	PetNotes        string    `json:"pet_notes,omitempty" bson:"pet_notes,omitempty" validate:"omitempty,max=500"`
	CustomerName    string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone   string    `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	CustomerEmail   string    `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	HoldID          string    `json:"hold_id,omitempty" bson:"-" validate:"omitempty,uuid4"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// DuplicateGroup is one cluster of non-cancelled bookings sharing a slot.
// Any non-empty FindDuplicates result means the uniqueness invariant was
// breached at some point and must be alerted on, not silently repaired.
type DuplicateGroup struct {
	AppointmentDate string     `json:"appointment_date" bson:"appointment_date"`
	AppointmentTime string     `json:"appointment_time" bson:"appointment_time"`
	GroomerID       string     `json:"groomer_id" bson:"groomer_id"`
	Count           int        `json:"count" bson:"count"`
	Bookings        []*Booking `json:"bookings" bson:"bookings"`
}
