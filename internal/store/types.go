package store

import (
	"errors"

	"homevisit/internal/model"
)

var (
	// ErrMeetingUnavailable is returned when the conditional reservation matched no
	// row: the meeting was already taken, or its id is stale or unknown.
	ErrMeetingUnavailable = errors.New("meeting is not currently available")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// AvailableGroup is one date with its still unreserved meetings, ordered by start.
type AvailableGroup struct {
	Group    model.MeetingGroup
	Meetings []model.Meeting
}

// ReservationRequest carries the validated contents of a reservation form.
type ReservationRequest struct {
	MeetingID int64
	Address   string
	Owner     PersonInput
}

// PersonInput is a person to be created with the household.
type PersonInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

// Reservation is the committed result of a successful Reserve call.
type Reservation struct {
	Household model.Household
	Owner     model.Person
	Meeting   model.Meeting
}
