// Package notify delivers rendered letters through a channel. Delivery is
// simulated: every channel writes a banner and the message to an io.Writer.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/nullnotice/internal/model"
)

// Receipt acknowledges a delivery.
type Receipt struct {
	ID      string
	Channel model.Channel
	Time    time.Time
}

// Notifier delivers a message to a recipient.
type Notifier interface {
	Deliver(ctx context.Context, recipient, message string) (Receipt, error)
	Channel() model.Channel
}

// Console is a simulated channel that prints to a writer.
type Console struct {
	channel model.Channel
	banner  string

	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewEmail returns the simulated email channel.
func NewEmail(out io.Writer) *Console {
	return &Console{channel: model.ChannelEmail, banner: "Sending email to %s:\n", out: out, now: time.Now}
}

// NewFax returns the simulated fax channel.
func NewFax(out io.Writer) *Console {
	return &Console{channel: model.ChannelFax, banner: "Sending fax to %s:\n", out: out, now: time.Now}
}

// Channel returns the channel name.
func (c *Console) Channel() model.Channel { return c.channel }

// Deliver writes the banner and message.
func (c *Console) Deliver(ctx context.Context, recipient, message string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, c.banner, recipient); err != nil {
		return Receipt{}, fmt.Errorf("writing %s banner: %w", c.channel, err)
	}
	if _, err := io.WriteString(c.out, message); err != nil {
		return Receipt{}, fmt.Errorf("writing %s message: %w", c.channel, err)
	}
	if !strings.HasSuffix(message, "\n") {
		if _, err := io.WriteString(c.out, "\n"); err != nil {
			return Receipt{}, fmt.Errorf("writing %s message: %w", c.channel, err)
		}
	}

	return Receipt{
		ID:      uuid.New().String(),
		Channel: c.channel,
		Time:    c.now().UTC(),
	}, nil
}

// Registry holds notifiers by channel.
type Registry struct {
	notifiers map[model.Channel]Notifier
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{notifiers: make(map[model.Channel]Notifier)}
}

// Register adds a notifier. Panics on a duplicate channel.
func (r *Registry) Register(n Notifier) {
	key := model.Channel(strings.ToLower(string(n.Channel())))
	if _, ok := r.notifiers[key]; ok {
		panic("duplicate notifier channel: " + string(key))
	}
	r.notifiers[key] = n
}

// Get returns the notifier for channel, or nil.
func (r *Registry) Get(channel model.Channel) Notifier {
	return r.notifiers[model.Channel(strings.ToLower(string(channel)))]
}

// DefaultRegistry returns a registry with every simulated channel writing to out.
func DefaultRegistry(out io.Writer) *Registry {
	r := NewRegistry()
	r.Register(NewEmail(out))
	r.Register(NewFax(out))
	return r
}
