package api

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"homevisit/config"
	"homevisit/internal/form"
	"homevisit/internal/metrics"
	"homevisit/internal/model"
	"homevisit/internal/notification"
	"homevisit/internal/store"
)

type meetingChoice struct {
	ID       int64
	Label    string
	Selected bool
}

type dateChoice struct {
	ID       int64
	Label    string
	Meetings []meetingChoice
}

type indexPage struct {
	Site       config.SiteConfig
	Dates      []dateChoice
	NoMeetings bool
	Form       form.ReservationForm
	Errors     form.Errors
}

// Index renders the available meetings and the reservation form.
func (h *Handler) Index(c *gin.Context) {
	h.renderIndex(c, form.ReservationForm{}, form.Errors{})
}

func (h *Handler) renderIndex(c *gin.Context, f form.ReservationForm, errs form.Errors) {
	groups, err := h.store.ListAvailable(c.Request.Context())
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "We could not load the available meetings. Please try again.", err)
		return
	}
	if len(groups) == 0 {
		h.log().Warn().Msg("There are no meetings to choose from")
	}

	page := indexPage{
		Site:       h.opts.Site,
		Dates:      h.dateChoices(groups, f.Meeting),
		NoMeetings: len(groups) == 0,
		Form:       f,
		Errors:     errs,
	}
	c.HTML(http.StatusOK, "index.html", page)
}

func (h *Handler) dateChoices(groups []store.AvailableGroup, selected string) []dateChoice {
	dates := make([]dateChoice, 0, len(groups))
	for _, g := range groups {
		d := dateChoice{
			ID:    g.Group.ID,
			Label: g.Group.Date.UTC().Format("Monday, January 02"),
		}
		for _, m := range g.Meetings {
			d.Meetings = append(d.Meetings, meetingChoice{
				ID:       m.ID,
				Label:    m.TimeLabel(h.opts.Location),
				Selected: strconv.FormatInt(m.ID, 10) == selected,
			})
		}
		dates = append(dates, d)
	}
	return dates
}

// Reserve handles a reservation form submission.
func (h *Handler) Reserve(c *gin.Context) {
	var f form.ReservationForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, http.StatusBadRequest, "The form could not be read.", err)
		return
	}

	req, errs := form.ValidateReservation(f)
	if !errs.Empty() {
		metrics.IncReservation(metrics.OutcomeInvalid)
		h.renderIndex(c, f, errs)
		return
	}

	res, err := h.store.Reserve(c.Request.Context(), req, h.opts.Now().UTC())
	if errors.Is(err, store.ErrMeetingUnavailable) {
		metrics.IncReservation(metrics.OutcomeConflict)
		h.log().Info().Int64("meeting_id", req.MeetingID).Msg("Meeting was not available")
		errs.Add("meeting", form.MeetingUnavailable)
		h.renderIndex(c, f, errs)
		return
	}
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "We could not save your reservation. Please try again.", err)
		return
	}

	metrics.IncReservation(metrics.OutcomeReserved)
	h.log().Info().
		Int64("household_id", res.Household.ID).
		Int64("person_id", res.Owner.ID).
		Int64("meeting_id", res.Meeting.ID).
		Msg("Created household with owner and meeting")

	label := res.Meeting.Label(h.opts.Location)
	if h.opts.Broadcaster != nil {
		failed := h.opts.Broadcaster.Broadcast(c.Request.Context(), notification.ReservationAlert(label))
		metrics.AddNotificationsFailed(metrics.ChannelPush, failed)
	}

	if h.emailEnabled() {
		msg := notification.ReservationMessage(h.reservationDetails(res.Household, res.Owner, label), h.opts.MailFrom)
		if err := h.opts.Mailer.Send(msg); err != nil {
			metrics.AddNotificationsFailed(metrics.ChannelEmail, 1)
			h.renderError(c, http.StatusInternalServerError,
				"Your visit is booked, but we could not send the confirmation email. Please contact us through the feedback page.", err)
			return
		}
	} else {
		h.log().Info().Msg("Received new household (but email is disabled)")
	}

	c.Redirect(http.StatusSeeOther, "/success?ref="+url.QueryEscape(res.Household.Reference))
}

func (h *Handler) reservationDetails(household model.Household, owner model.Person, label string) notification.ReservationDetails {
	return notification.ReservationDetails{
		FirstName:    owner.FirstName,
		Email:        owner.Email,
		MeetingLabel: label,
		Address:      household.Address,
		HostName:     h.opts.Site.HostName,
		Organization: h.opts.Site.Organization,
	}
}

type successPage struct {
	Site      config.SiteConfig
	Found     bool
	Reference string
	Meetings  []string
	Message   template.HTML
}

// Success renders the confirmation for the household named by ?ref=.
func (h *Handler) Success(c *gin.Context) {
	page := successPage{Site: h.opts.Site}

	if ref := c.Query("ref"); ref != "" {
		household, err := h.store.GetReservation(c.Request.Context(), ref)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			h.renderError(c, http.StatusInternalServerError, "We could not load your reservation.", err)
			return
		default:
			page.Found = true
			page.Reference = household.ShortReference()
			for _, m := range household.Meetings {
				page.Meetings = append(page.Meetings, m.Label(h.opts.Location))
			}
			if owner, ok := household.Owner(); ok && len(page.Meetings) > 0 {
				msg := notification.ReservationMessage(h.reservationDetails(*household, owner, page.Meetings[0]), "")
				// The message builder escapes every interpolated value.
				page.Message = template.HTML(msg.HTML)
			}
		}
	}

	c.HTML(http.StatusOK, "success.html", page)
}

type meetingOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// GetGroupMeetings returns the unreserved meetings of one date for the
// dependent time dropdown.
func (h *Handler) GetGroupMeetings(c *gin.Context) {
	groupID, err := strconv.ParseInt(c.Param("group_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	meetings, err := h.store.AvailableInGroup(c.Request.Context(), groupID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting group not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load meetings"})
		return
	}

	options := make([]meetingOption, 0, len(meetings))
	for _, m := range meetings {
		options = append(options, meetingOption{ID: m.ID, Label: m.TimeLabel(h.opts.Location)})
	}
	c.JSON(http.StatusOK, options)
}

type errorPage struct {
	Site    config.SiteConfig
	Message string
}

func (h *Handler) renderError(c *gin.Context, status int, message string, err error) {
	h.log().Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.HTML(status, "error.html", errorPage{Site: h.opts.Site, Message: message})
}
