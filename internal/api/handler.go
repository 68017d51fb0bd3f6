package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"homevisit/config"
	"homevisit/internal/notification"
	"homevisit/internal/store"
)

// MailSender delivers an email or reports why it could not.
type MailSender interface {
	Send(msg notification.Message) error
}

// AlertBroadcaster pushes an alert to organizer browsers and returns the
// number of failed deliveries.
type AlertBroadcaster interface {
	Broadcast(ctx context.Context, alert notification.Alert) int
}

// Options configures a Handler. Mailer and Broadcaster are optional; leave
// them as untyped nil to disable the channel.
type Options struct {
	Site           config.SiteConfig
	Location       *time.Location
	Mailer         MailSender
	MailFrom       string
	Broadcaster    AlertBroadcaster
	VAPIDPublicKey string
	Logger         *zerolog.Logger
	Now            func() time.Time
}

// Handler holds shared dependencies for the HTTP handlers.
type Handler struct {
	store store.Store
	opts  Options
}

// NewHandler creates a new handler.
func NewHandler(s store.Store, opts Options) *Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		store: s,
		opts:  opts,
	}
}

func (h *Handler) log() *zerolog.Logger {
	return h.opts.Logger
}

func (h *Handler) emailEnabled() bool {
	return h.opts.Mailer != nil
}
