package notification

import (
	"fmt"
	"html"
	"strings"

	"homevisit/internal/model"
	"homevisit/internal/parse"
)

// Message is an outbound email. HTML is optional; when set it is sent as the
// alternative part next to the plain text Body.
type Message struct {
	Subject string
	Body    string
	HTML    string
	From    string
	To      []string
	Cc      []string
	ReplyTo string
}

// ReservationDetails is everything the confirmation email mentions.
type ReservationDetails struct {
	FirstName    string
	Email        string
	MeetingLabel string
	Address      string
	HostName     string
	Organization string
}

func (d ReservationDetails) visitors() string {
	if d.Organization == "" {
		return "us"
	}
	return d.Organization
}

// ReservationMessage builds the confirmation sent to the household owner with a
// copy to the organization's address (from).
func ReservationMessage(d ReservationDetails, from string) Message {
	subject := "Meeting scheduled!"
	if d.Organization != "" {
		subject = fmt.Sprintf("Meeting scheduled with %s!", d.Organization)
	}
	feedbackURL := fmt.Sprintf("http://%s/feedback", d.HostName)

	intro := fmt.Sprintf("Thanks, %s! You're all set for %s to visit you on %s at:", d.FirstName, d.visitors(), d.MeetingLabel)
	closing := "Looking forward to seeing you!"
	if d.Organization != "" {
		closing += "\n" + d.Organization
	}

	text := strings.Join([]string{
		intro,
		d.Address,
		fmt.Sprintf("If you need to cancel or change this meeting (or if you have any questions), please contact us on the website (%s).", feedbackURL),
		closing,
	}, "\n\n")

	htmlBody := strings.Join([]string{
		html.EscapeString(intro),
		html.EscapeString(d.Address),
		fmt.Sprintf(`If you need to cancel or change this meeting (or if you have any questions), please <a href="%s">contact us on the website</a>.`, html.EscapeString(feedbackURL)),
		html.EscapeString(closing),
	}, "\n\n")

	msg := Message{
		Subject: subject,
		Body:    text,
		HTML:    NewlinesToBreaks(htmlBody),
		From:    from,
		To:      []string{d.Email},
	}
	if from != "" {
		msg.Cc = []string{from}
	}
	return msg
}

// FeedbackMessage forwards a contact-us submission to the organization's
// address (to). Replies go straight to the submitter.
func FeedbackMessage(fb model.Feedback, to string) Message {
	body := fmt.Sprintf("%s just sent some feedback about: %s\nEmail: %s\nPhone: %s\n\n%s",
		fb.Name, fb.Issue.Label(), fb.Email, parse.FormatPhone(fb.PhoneNumber), fb.Comment)
	return Message{
		Subject: fmt.Sprintf("Homevisit Feedback from %s", fb.Name),
		Body:    body,
		From:    to,
		To:      []string{to},
		ReplyTo: fb.Email,
	}
}

// NewlinesToBreaks turns every line break into an HTML <br>.
func NewlinesToBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}
