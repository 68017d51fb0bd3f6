package model

import "time"

// Issue is the category a feedback message is filed under.
type Issue string

const (
	IssueReschedule Issue = "reschedule"
	IssueCancel     Issue = "cancel"
	IssueQuestion   Issue = "question"
	IssueWebsite    Issue = "website"
	IssueOther      Issue = "other"
)

// Issues lists the selectable categories in display order.
var Issues = []Issue{IssueReschedule, IssueCancel, IssueQuestion, IssueWebsite, IssueOther}

var issueLabels = map[Issue]string{
	IssueReschedule: "Reschedule my visit",
	IssueCancel:     "Cancel my visit",
	IssueQuestion:   "General question",
	IssueWebsite:    "Problem with the website",
	IssueOther:      "Other",
}

// Label is the human readable category name.
func (i Issue) Label() string {
	if l, ok := issueLabels[i]; ok {
		return l
	}
	return string(i)
}

// Valid reports whether i is one of the known categories.
func (i Issue) Valid() bool {
	_, ok := issueLabels[i]
	return ok
}

// Feedback is a contact-us message. It has no relation to households or meetings.
type Feedback struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"size:128;not null"`
	Email       string    `gorm:"size:254;not null"`
	PhoneNumber string    `gorm:"size:32"`
	Issue       Issue     `gorm:"size:32;not null"`
	Comment     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
