package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homevisit/internal/model"
)

func TestReservationMessage(t *testing.T) {
	msg := ReservationMessage(ReservationDetails{
		FirstName:    "Pat",
		Email:        "pat@test.com",
		MeetingLabel: "Monday, January 08 at 09:00 AM - 10:00 AM",
		Address:      "1 Main St\nSpringfield",
		HostName:     "visits.example.org",
		Organization: "Will and Lindy",
	}, "hosts@example.org")

	assert.Equal(t, "Meeting scheduled with Will and Lindy!", msg.Subject)
	assert.Equal(t, "hosts@example.org", msg.From)
	assert.Equal(t, []string{"pat@test.com"}, msg.To)
	assert.Equal(t, []string{"hosts@example.org"}, msg.Cc)

	assert.Contains(t, msg.Body, "Thanks, Pat! You're all set for Will and Lindy to visit you on Monday, January 08 at 09:00 AM - 10:00 AM at:\n\n1 Main St\nSpringfield\n\n")
	assert.Contains(t, msg.Body, "http://visits.example.org/feedback")
	assert.NotContains(t, msg.HTML, "\n")
	assert.Contains(t, msg.HTML, "1 Main St<br>Springfield<br><br>")
	assert.Contains(t, msg.HTML, `<a href="http://visits.example.org/feedback">contact us on the website</a>`)
}

func TestReservationMessage_EscapesHTML(t *testing.T) {
	msg := ReservationMessage(ReservationDetails{
		FirstName: "<b>Pat</b>",
		Email:     "pat@test.com",
		Address:   "1 Main & Co",
		HostName:  "localhost",
	}, "")

	assert.Equal(t, "Meeting scheduled!", msg.Subject)
	assert.Empty(t, msg.Cc)
	assert.Contains(t, msg.Body, "for us to visit")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Pat&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "1 Main &amp; Co")
}

func TestFeedbackMessage(t *testing.T) {
	msg := FeedbackMessage(model.Feedback{
		Name:        "Pat",
		Email:       "pat@test.com",
		PhoneNumber: "+15307777777",
		Issue:       model.IssueCancel,
		Comment:     "Something came up.",
	}, "hosts@example.org")

	assert.Equal(t, "Homevisit Feedback from Pat", msg.Subject)
	assert.Equal(t, []string{"hosts@example.org"}, msg.To)
	assert.Equal(t, "pat@test.com", msg.ReplyTo)
	assert.Equal(t, "Pat just sent some feedback about: Cancel my visit\nEmail: pat@test.com\nPhone: (530) 777-7777\n\nSomething came up.", msg.Body)
	assert.Empty(t, msg.HTML)
}

func TestNewlinesToBreaks(t *testing.T) {
	assert.Equal(t, "a<br>b<br><br>c", NewlinesToBreaks("a\r\nb\n\nc"))
}
