package push

import (
	"context"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/blogify-app/backend/internal/models"
)

// Sender delivers an encoded payload to one subscription endpoint.
type Sender interface {
	Send(ctx context.Context, sub *models.PushSubscription, message []byte) error
}

// WebPushSender sends Web Push messages signed with VAPID keys.
type WebPushSender struct {
	subscriber      string // mailto: or https: contact for the push service
	vapidPublicKey  string
	vapidPrivateKey string
}

// NewWebPushSender creates a WebPushSender.
func NewWebPushSender(subscriber, vapidPublicKey, vapidPrivateKey string) *WebPushSender {
	return &WebPushSender{
		subscriber:      subscriber,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub *models.PushSubscription, message []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, message, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
