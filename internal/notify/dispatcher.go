// Package notify sends review and confirmation messages over email and
// messaging channels. Delivery is best-effort and fire-and-forget: a
// failed send is logged and never blocks session progress.

package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// Channel delivers one notification.
type Channel interface {
	Send(ctx context.Context, req models.NotificationRequest) error
}

type Dispatcher struct {
	email     Channel
	messaging Channel
	wg        sync.WaitGroup
}

// NewDispatcher wires the available channels. Either may be nil when not
// configured; requests for a missing channel are logged and dropped.
func NewDispatcher(email, messaging Channel) *Dispatcher {
	return &Dispatcher{email: email, messaging: messaging}
}

// Dispatch sends in the background and returns immediately.
func (d *Dispatcher) Dispatch(req models.NotificationRequest) {
	ch := d.channelFor(req.Channel)
	if ch == nil {
		log.Printf("⚠️ No %s channel configured; dropping notification to %s", req.Channel, req.Recipient)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ch.Send(ctx, req); err != nil {
			log.Printf("⚠️ Failed to send %s notification to %s: %v", req.Channel, req.Recipient, err)
			return
		}
		log.Printf("📨 Sent %s notification to %s", req.Channel, req.Recipient)
	}()
}

// Wait blocks until every in-flight send has finished. Used on shutdown
// and by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) channelFor(c models.NotificationChannel) Channel {
	switch c {
	case models.ChannelEmail:
		return d.email
	case models.ChannelMessaging:
		return d.messaging
	}
	return nil
}
