package form

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"homevisit/internal/model"
	"homevisit/internal/parse"
	"homevisit/internal/store"
)

var validate = validator.New()

// MeetingUnavailable is shown on the meeting field when a reservation loses the race.
const MeetingUnavailable = "This meeting is not currently available. Please choose another time."

const (
	maxNameLen    = 64
	maxEmailLen   = 254
	maxAddressLen = 512
	maxCommentLen = 4000
)

// ReservationForm is the submitted household, owner and meeting choice.
type ReservationForm struct {
	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	PhoneNumber string `form:"phone_number"`
	Email       string `form:"email"`
	Address     string `form:"address"`
	Meeting     string `form:"meeting"`
}

// FeedbackForm is the submitted contact-us message.
type FeedbackForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phone_number"`
	Issue       string `form:"issue"`
	Comment     string `form:"comment"`
}

// ValidateReservation checks f without touching any store. When the returned
// Errors is empty the request is ready for store.Reserve.
func ValidateReservation(f ReservationForm) (store.ReservationRequest, Errors) {
	errs := Errors{}
	req := store.ReservationRequest{
		Address: strings.TrimSpace(f.Address),
		Owner: store.PersonInput{
			FirstName: strings.TrimSpace(f.FirstName),
			LastName:  strings.TrimSpace(f.LastName),
		},
	}

	requireText(errs, "first_name", req.Owner.FirstName, maxNameLen)
	optionalText(errs, "last_name", req.Owner.LastName, maxNameLen)
	requireText(errs, "address", req.Address, maxAddressLen)
	req.Owner.Email = checkEmail(errs, "email", f.Email)
	req.Owner.PhoneNumber = checkPhone(errs, "phone_number", f.PhoneNumber)

	meeting := strings.TrimSpace(f.Meeting)
	switch id, err := strconv.ParseInt(meeting, 10, 64); {
	case meeting == "":
		errs.Add("meeting", "Please choose a meeting time.")
	case err != nil || id <= 0:
		errs.Add("meeting", "Select a valid meeting.")
	default:
		req.MeetingID = id
	}

	return req, errs
}

// ValidateFeedback checks f and returns the record to persist.
func ValidateFeedback(f FeedbackForm) (model.Feedback, Errors) {
	errs := Errors{}
	fb := model.Feedback{
		Name:    strings.TrimSpace(f.Name),
		Issue:   model.Issue(strings.TrimSpace(f.Issue)),
		Comment: strings.TrimSpace(f.Comment),
	}

	requireText(errs, "name", fb.Name, maxNameLen*2)
	fb.Email = checkEmail(errs, "email", f.Email)
	fb.PhoneNumber = checkPhone(errs, "phone_number", f.PhoneNumber)
	if !fb.Issue.Valid() {
		errs.Add("issue", "Select a valid issue.")
	}
	requireText(errs, "comment", fb.Comment, maxCommentLen)

	return fb, errs
}

func requireText(errs Errors, field, value string, max int) {
	if value == "" {
		errs.Add(field, "This field is required.")
		return
	}
	optionalText(errs, field, value, max)
}

func optionalText(errs Errors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		errs.Add(field, "Ensure this value has at most "+strconv.Itoa(max)+" characters.")
	}
}

func checkEmail(errs Errors, field, raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		errs.Add(field, "This field is required.")
		return ""
	}
	if len(email) > maxEmailLen || validate.Var(email, "email") != nil {
		errs.Add(field, "Enter a valid email address.")
		return ""
	}
	return email
}

func checkPhone(errs Errors, field, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	phone, err := parse.Phone(raw)
	if err != nil {
		errs.Add(field, "Enter a valid phone number (e.g. (201) 555-0123).")
		return ""
	}
	return phone
}
