// Package notify delivers reminder messages over email, SMS and MQTT push.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

var ErrNoRecipient = errors.New("notify: recipient has no address for channel")

// Message is one rendered notification. Each channel picks the fields it needs.
type Message struct {
	ID      string `json:"id"`
	UserID  int    `json:"user_id"`
	To      string `json:"-"`
	Phone   string `json:"-"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"-"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	Channel string
}

func (n LogNotifier) Send(ctx context.Context, msg Message) error {
	log.Info().
		Str("channel", n.Channel).
		Str("message_id", msg.ID).
		Int("user_id", msg.UserID).
		Str("subject", msg.Subject).
		Msg(msg.Text)
	return nil
}

// Dispatcher routes a message to the notifier registered for each channel.
type Dispatcher struct {
	notifiers map[string]Notifier
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{notifiers: map[string]Notifier{}}
}

// Register binds a channel; a nil notifier leaves the log fallback in place.
func (d *Dispatcher) Register(channel string, n Notifier) {
	if n == nil {
		return
	}
	d.notifiers[channel] = n
}

func (d *Dispatcher) notifier(channel string) Notifier {
	if n, ok := d.notifiers[channel]; ok {
		return n
	}
	return LogNotifier{Channel: channel}
}

// Dispatch sends msg on every channel and returns how many succeeded.
// Per-channel failures are logged and joined into the returned error.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []string, msg Message) (int, error) {
	sent := 0
	var failed []string
	for _, ch := range channels {
		if err := d.notifier(ch).Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("channel", ch).Str("message_id", msg.ID).Msg("Notification failed")
			failed = append(failed, fmt.Sprintf("%s: %v", ch, err))
			continue
		}
		sent++
	}
	if len(failed) > 0 {
		return sent, fmt.Errorf("notify: %s", strings.Join(failed, "; "))
	}
	return sent, nil
}

// ValidChannel reports whether ch names a supported delivery channel.
func ValidChannel(ch string) bool {
	switch ch {
	case model.ChannelEmail, model.ChannelSMS, model.ChannelPush:
		return true
	}
	return false
}
