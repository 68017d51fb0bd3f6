package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homevisit/config"
	"homevisit/internal/form"
	"homevisit/internal/metrics"
	"homevisit/internal/model"
	"homevisit/internal/notification"
)

type issueChoice struct {
	Value    string
	Label    string
	Selected bool
}

type feedbackPage struct {
	Site   config.SiteConfig
	Issues []issueChoice
	Form   form.FeedbackForm
	Errors form.Errors
}

// FeedbackForm renders the contact-us form.
func (h *Handler) FeedbackForm(c *gin.Context) {
	h.renderFeedback(c, form.FeedbackForm{}, form.Errors{})
}

func (h *Handler) renderFeedback(c *gin.Context, f form.FeedbackForm, errs form.Errors) {
	issues := make([]issueChoice, 0, len(model.Issues))
	for _, i := range model.Issues {
		issues = append(issues, issueChoice{Value: string(i), Label: i.Label(), Selected: string(i) == f.Issue})
	}
	c.HTML(http.StatusOK, "feedback.html", feedbackPage{
		Site:   h.opts.Site,
		Issues: issues,
		Form:   f,
		Errors: errs,
	})
}

// SubmitFeedback validates, stores and forwards a contact-us message.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var f form.FeedbackForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, http.StatusBadRequest, "The form could not be read.", err)
		return
	}

	fb, errs := form.ValidateFeedback(f)
	if !errs.Empty() {
		h.renderFeedback(c, f, errs)
		return
	}

	if err := h.store.CreateFeedback(c.Request.Context(), &fb); err != nil {
		h.renderError(c, http.StatusInternalServerError, "We could not save your message. Please try again.", err)
		return
	}
	metrics.IncFeedback()
	h.log().Info().Int64("feedback_id", fb.ID).Str("issue", string(fb.Issue)).Msg("Received feedback")

	if h.opts.Broadcaster != nil {
		failed := h.opts.Broadcaster.Broadcast(c.Request.Context(), notification.FeedbackAlert(fb.Issue))
		metrics.AddNotificationsFailed(metrics.ChannelPush, failed)
	}

	if h.emailEnabled() {
		if err := h.opts.Mailer.Send(notification.FeedbackMessage(fb, h.opts.MailFrom)); err != nil {
			metrics.AddNotificationsFailed(metrics.ChannelEmail, 1)
			h.renderError(c, http.StatusInternalServerError,
				"Your message was saved, but we could not forward it by email.", err)
			return
		}
	} else {
		h.log().Info().Msg("Received new feedback (but email is disabled)")
	}

	c.Redirect(http.StatusSeeOther, "/feedback/success")
}

type staticPage struct {
	Site config.SiteConfig
}

// FeedbackSuccess thanks the visitor for their message.
func (h *Handler) FeedbackSuccess(c *gin.Context) {
	c.HTML(http.StatusOK, "feedback_success.html", staticPage{Site: h.opts.Site})
}
