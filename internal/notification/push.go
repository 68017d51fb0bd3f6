package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"homevisit/config"
	"homevisit/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the part of the store the broadcaster needs.
type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Broadcaster alerts every subscribed organizer browser. Delivery is best
// effort: failures are logged and counted, never returned.
type Broadcaster struct {
	store   SubscriptionStore
	options *webpush.Options
	sender  NotificationSender
	logger  *zerolog.Logger
}

// NewBroadcaster returns nil when the VAPID keys are not configured.
func NewBroadcaster(store SubscriptionStore, cfg config.PushConfig, logger *zerolog.Logger) *Broadcaster {
	if !cfg.Enabled() {
		return nil
	}
	return &Broadcaster{
		store: store,
		options: &webpush.Options{
			Subscriber:      cfg.Subject,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             cfg.TTL,
		},
		sender: &WebPushSender{},
		logger: logger,
	}
}

// Alert is the JSON payload the organizer service worker displays.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// ReservationAlert announces a new reservation without any household details.
func ReservationAlert(meetingLabel string) Alert {
	return Alert{Title: "New home visit scheduled", Body: meetingLabel}
}

// FeedbackAlert announces a new contact-us message.
func FeedbackAlert(issue model.Issue) Alert {
	return Alert{Title: "New feedback", Body: issue.Label()}
}

// Broadcast sends alert to all stored subscriptions and reports how many
// deliveries failed.
func (b *Broadcaster) Broadcast(ctx context.Context, alert Alert) int {
	payload, err := json.Marshal(alert)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to encode push alert")
		return 1
	}

	subscriptions, err := b.store.ListSubscriptions(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to load push subscriptions")
		return 1
	}

	failed := 0
	for _, sub := range subscriptions {
		if !b.sendNotification(ctx, sub, payload) {
			failed++
		}
	}
	return failed
}

// sendNotification sends a single web push notification.
func (b *Broadcaster) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) bool {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := b.sender.Send(payload, wpSub, b.options)
	if err != nil {
		b.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("Failed to send push notification")
		return false
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		b.logger.Info().Str("endpoint", sub.Endpoint).Msg("Push subscription expired, deleting")
		if err := b.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			b.logger.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("Failed to delete expired subscription")
		}
		return false
	}
	if resp.StatusCode >= 400 {
		b.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", sub.Endpoint).Msg("Push service rejected notification")
		return false
	}
	return true
}
