package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homevisit/config"
	"homevisit/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

type memorySubscriptions struct {
	mu      sync.Mutex
	subs    []model.PushSubscription
	deleted []string
	listErr error
}

func (m *memorySubscriptions) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PushSubscription(nil), m.subs...), m.listErr
}

func (m *memorySubscriptions) DeleteSubscription(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, endpoint)
	return nil
}

func respond(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func newTestBroadcaster(store SubscriptionStore, sender NotificationSender) *Broadcaster {
	logger := zerolog.New(io.Discard)
	return &Broadcaster{store: store, options: &webpush.Options{}, sender: sender, logger: &logger}
}

func TestNewBroadcaster_DisabledWithoutKeys(t *testing.T) {
	logger := zerolog.New(io.Discard)
	assert.Nil(t, NewBroadcaster(&memorySubscriptions{}, config.PushConfig{PublicKey: "pub"}, &logger))
	assert.NotNil(t, NewBroadcaster(&memorySubscriptions{}, config.PushConfig{PublicKey: "pub", PrivateKey: "priv"}, &logger))
}

func TestBroadcaster_SendsToEverySubscription(t *testing.T) {
	store := &memorySubscriptions{subs: []model.PushSubscription{
		{Endpoint: "https://example.com/push/1", P256DH: "k1", Auth: "a1"},
		{Endpoint: "https://example.com/push/2", P256DH: "k2", Auth: "a2"},
	}}

	var endpoints []string
	sender := &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			var alert Alert
			require.NoError(t, json.Unmarshal(payload, &alert))
			assert.Equal(t, "New home visit scheduled", alert.Title)
			assert.Equal(t, "Monday, January 08 at 09:00 AM - 10:00 AM", alert.Body)
			endpoints = append(endpoints, sub.Endpoint)
			return respond(http.StatusCreated), nil
		},
	}

	failed := newTestBroadcaster(store, sender).Broadcast(context.Background(), ReservationAlert("Monday, January 08 at 09:00 AM - 10:00 AM"))
	assert.Zero(t, failed)
	assert.Equal(t, []string{"https://example.com/push/1", "https://example.com/push/2"}, endpoints)
	assert.Empty(t, store.deleted)
}

func TestBroadcaster_DeletesExpiredSubscription(t *testing.T) {
	store := &memorySubscriptions{subs: []model.PushSubscription{
		{Endpoint: "https://example.com/expired"},
		{Endpoint: "https://example.com/live"},
	}}
	sender := &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			if sub.Endpoint == "https://example.com/expired" {
				return respond(http.StatusGone), nil
			}
			return respond(http.StatusCreated), nil
		},
	}

	failed := newTestBroadcaster(store, sender).Broadcast(context.Background(), FeedbackAlert(model.IssueQuestion))
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"https://example.com/expired"}, store.deleted)
}

func TestBroadcaster_CountsFailures(t *testing.T) {
	store := &memorySubscriptions{subs: []model.PushSubscription{{Endpoint: "https://example.com/a"}, {Endpoint: "https://example.com/b"}}}
	sender := &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			if sub.Endpoint == "https://example.com/a" {
				return nil, errors.New("connection refused")
			}
			return respond(http.StatusBadRequest), nil
		},
	}

	assert.Equal(t, 2, newTestBroadcaster(store, sender).Broadcast(context.Background(), ReservationAlert("x")))
	assert.Empty(t, store.deleted)
}

func TestBroadcaster_ListFailure(t *testing.T) {
	store := &memorySubscriptions{listErr: errors.New("db down")}
	sender := &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			t.Fatal("sender must not be called")
			return nil, nil
		},
	}

	assert.Equal(t, 1, newTestBroadcaster(store, sender).Broadcast(context.Background(), ReservationAlert("x")))
}
