package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"

	"hourmeter-backend/internal/alarm"
	"hourmeter-backend/internal/model"
	"hourmeter-backend/internal/report"
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

// SubscriptionStore is the part of the store the workers need.
type SubscriptionStore interface {
	SubscriptionsForBrandModel(ctx context.Context, brand, model string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// WorkerPool fans maintenance alarm crossings out to push subscribers and,
// when configured, to a message broker.
type WorkerPool struct {
	size      int
	jobs      chan alarm.Crossing
	store     SubscriptionStore
	webpush   *webpush.Options // nil disables web push
	sender    NotificationSender
	publisher Publisher
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan alarm.Crossing, size), // Buffered channel
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// SetPublisher attaches an event publisher. Pass nil to detach.
func (wp *WorkerPool) SetPublisher(p Publisher) {
	wp.publisher = p
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case c := <-wp.jobs:
			log.Printf("Worker %d processing %s %s crossing %v", id, c.Brand, c.Model, c.Thresholds)
			wp.handle(ctx, c)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job without blocking. The caller's write is already
// committed, so a full queue drops the notification instead of stalling it.
func (wp *WorkerPool) Dispatch(c alarm.Crossing) {
	select {
	case wp.jobs <- c:
	default:
		log.Printf("Notification queue full; dropping alarm for %s %s (record %d, thresholds %v)",
			c.Brand, c.Model, c.RecordID, c.Thresholds)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan alarm.Crossing {
	return wp.jobs
}

func (wp *WorkerPool) handle(ctx context.Context, c alarm.Crossing) {
	if wp.publisher != nil {
		if err := wp.publisher.Publish(ctx, c); err != nil {
			log.Printf("Error publishing alarm for %s %s: %v", c.Brand, c.Model, err)
		}
	}
	if wp.webpush != nil {
		wp.sendNotificationsForBucket(ctx, c)
	}
}

// Message is the push payload text for a crossing.
func Message(c alarm.Crossing) string {
	levels := make([]string, len(c.Thresholds))
	for i, t := range c.Thresholds {
		levels[i] = fmt.Sprintf("%.0f", t)
	}
	return fmt.Sprintf("%s %s: manutenção de %s horas atingida (%s horas acumuladas)",
		c.Brand, c.Model, strings.Join(levels, ", "), report.FormatHours(c.After))
}

// sendNotificationsForBucket fetches subscriptions following any machine of the
// crossing's brand+model and notifies each of them.
func (wp *WorkerPool) sendNotificationsForBucket(ctx context.Context, c alarm.Crossing) {
	subscriptions, err := wp.store.SubscriptionsForBrandModel(ctx, c.Brand, c.Model)
	if err != nil {
		log.Printf("Error fetching subscriptions for %s %s: %v", c.Brand, c.Model, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for %s %s", len(subscriptions), c.Brand, c.Model)

	message := []byte(Message(c))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, message)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
