package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"homevisit/internal/model"
)

func validReservation() ReservationForm {
	return ReservationForm{
		FirstName:   "TestFirst",
		LastName:    "TestLast",
		PhoneNumber: "5307777777",
		Email:       "user@test.com",
		Address:     "Test Address",
		Meeting:     "3",
	}
}

func TestValidateReservation_Valid(t *testing.T) {
	req, errs := ValidateReservation(validReservation())

	assert.True(t, errs.Empty())
	assert.Equal(t, int64(3), req.MeetingID)
	assert.Equal(t, "Test Address", req.Address)
	assert.Equal(t, "TestFirst", req.Owner.FirstName)
	assert.Equal(t, "TestLast", req.Owner.LastName)
	assert.Equal(t, "+15307777777", req.Owner.PhoneNumber)
	assert.Equal(t, "user@test.com", req.Owner.Email)
}

func TestValidateReservation_OptionalFieldsMayBeBlank(t *testing.T) {
	f := validReservation()
	f.LastName = ""
	f.PhoneNumber = "  "

	req, errs := ValidateReservation(f)
	assert.True(t, errs.Empty())
	assert.Empty(t, req.Owner.PhoneNumber)
}

func TestValidateReservation_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(f *ReservationForm)
		field  string
	}{
		{name: "Malformed email", mutate: func(f *ReservationForm) { f.Email = "not-an-email" }, field: "email"},
		{name: "Missing email", mutate: func(f *ReservationForm) { f.Email = "" }, field: "email"},
		{name: "Missing first name", mutate: func(f *ReservationForm) { f.FirstName = " " }, field: "first_name"},
		{name: "Missing address", mutate: func(f *ReservationForm) { f.Address = "" }, field: "address"},
		{name: "Long last name", mutate: func(f *ReservationForm) { f.LastName = strings.Repeat("x", 65) }, field: "last_name"},
		{name: "Bad phone", mutate: func(f *ReservationForm) { f.PhoneNumber = "12345" }, field: "phone_number"},
		{name: "Missing meeting", mutate: func(f *ReservationForm) { f.Meeting = "" }, field: "meeting"},
		{name: "Non numeric meeting", mutate: func(f *ReservationForm) { f.Meeting = "abc" }, field: "meeting"},
		{name: "Negative meeting", mutate: func(f *ReservationForm) { f.Meeting = "-1" }, field: "meeting"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := validReservation()
			tc.mutate(&f)

			_, errs := ValidateReservation(f)
			assert.False(t, errs.Empty())
			assert.NotEmpty(t, errs[tc.field], "expected an error on %s, got %v", tc.field, errs)
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidateFeedback(t *testing.T) {
	fb, errs := ValidateFeedback(FeedbackForm{
		Name:        "Pat",
		Email:       "pat@test.com",
		PhoneNumber: "(530) 777-7777",
		Issue:       "reschedule",
		Comment:     "Can we move to Tuesday?",
	})
	assert.True(t, errs.Empty())
	assert.Equal(t, model.IssueReschedule, fb.Issue)
	assert.Equal(t, "+15307777777", fb.PhoneNumber)

	_, errs = ValidateFeedback(FeedbackForm{Issue: "complaint"})
	assert.NotEmpty(t, errs["name"])
	assert.NotEmpty(t, errs["email"])
	assert.NotEmpty(t, errs["issue"])
	assert.NotEmpty(t, errs["comment"])
	assert.Empty(t, errs["phone_number"])
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.True(t, errs.Empty())

	errs.Add("meeting", MeetingUnavailable)
	errs.Add("meeting", "second")
	assert.False(t, errs.Empty())
	assert.NotEmpty(t, errs["meeting"])
	assert.Empty(t, errs["email"])
	assert.Equal(t, []string{MeetingUnavailable, "second"}, errs["meeting"])
	assert.Contains(t, MeetingUnavailable, "meeting is not currently available")
}
