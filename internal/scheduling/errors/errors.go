package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotTaken = errors.New("slot already booked for this groomer")

	ErrGroomerNotFound = errors.New("groomer not found")

	ErrHoldTaken = errors.New("slot already held")

	ErrHoldNotFound = errors.New("hold not found or expired")
)
