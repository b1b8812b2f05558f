package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xeno347/supervisor-final/internal/apperr"
	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/logger"

	"github.com/google/uuid"
)

const (
	TipperUnloadedText  = "tripper has been unloaded"
	TipperUnloadedTitle = "Harvest Update"
	DefaultChannelID    = "harvest"
	DefaultChannelName  = "Harvest"

	// DefaultNativeTimeout bounds one native delivery.
	DefaultNativeTimeout = 5 * time.Second
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is a transient in-app message (toast).
type Message struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Text    string    `json:"text"`
	Detail  string    `json:"detail,omitempty"`
	ShownAt time.Time `json:"shown_at"`
}

// InApp displays transient in-app messages.
type InApp interface {
	Show(ctx context.Context, msg Message)
}

type Importance string

const (
	ImportanceDefault Importance = "default"
	ImportanceHigh    Importance = "high"
)

type Channel struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Importance Importance `json:"importance"`
}

type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID string `json:"channel_id"`
	// PressAction is the action id opened when the notification is tapped.
	PressAction string `json:"press_action"`
}

// Native is the optional platform notification capability.
type Native interface {
	EnsureChannel(ctx context.Context, ch Channel) error
	Display(ctx context.Context, n Notification) error
}

// availability is implemented by Native capabilities that can be present but unusable.
type availability interface {
	Available() bool
}

// Dispatcher fires the side effects of a tipper-unloaded event.
type Dispatcher struct {
	inApp         InApp
	native        Native
	channel       Channel
	nativeTimeout time.Duration

	wg sync.WaitGroup
}

var _ interfaces.TripNotifier = (*Dispatcher)(nil)

type Option func(*Dispatcher)

// WithNative enables the platform notification path.
func WithNative(n Native) Option {
	return func(d *Dispatcher) {
		d.native = n
	}
}

// WithChannelID overrides the notification channel id.
func WithChannelID(id string) Option {
	return func(d *Dispatcher) {
		if id != "" {
			d.channel.ID = id
		}
	}
}

// WithNativeTimeout overrides DefaultNativeTimeout.
func WithNativeTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.nativeTimeout = t
		}
	}
}

func NewDispatcher(inApp InApp, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		inApp:         inApp,
		nativeTimeout: DefaultNativeTimeout,
		channel: Channel{
			ID:         DefaultChannelID,
			Name:       DefaultChannelName,
			Importance: ImportanceHigh,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NotifyTipperUnloaded shows the in-app message and, when available, starts a
// native notification in the background so a slow platform never holds up the
// caller. Panics and errors on either path are logged and dropped.
func (d *Dispatcher) NotifyTipperUnloaded(ctx context.Context) {
	d.showInApp(ctx, NewMessage(LevelInfo, TipperUnloadedText, ""))

	if !d.nativeAvailable() {
		logger.Debug(ctx, "Skipping native notification", "reason", apperr.CapabilityUnavailable("native notifications"))
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.nativeTimeout)
		defer cancel()
		if err := d.displayNative(nctx); err != nil {
			logger.Debug(ctx, "Native notification failed", "error", err)
		}
	}()
}

// Wait blocks until every native delivery started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) showInApp(ctx context.Context, msg Message) {
	if d.inApp == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(ctx, "In-app message panicked", "panic", fmt.Sprint(r))
		}
	}()
	d.inApp.Show(ctx, msg)
}

func (d *Dispatcher) nativeAvailable() bool {
	if d.native == nil {
		return false
	}
	if a, ok := d.native.(availability); ok {
		return a.Available()
	}
	return true
}

func (d *Dispatcher) displayNative(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native notification panicked: %v", r)
		}
	}()

	if chErr := d.native.EnsureChannel(ctx, d.channel); chErr != nil {
		logger.Debug(ctx, "Failed to ensure notification channel", "channel", d.channel.ID, "error", chErr)
	}

	return d.native.Display(ctx, Notification{
		Title:       TipperUnloadedTitle,
		Body:        TipperUnloadedText,
		ChannelID:   d.channel.ID,
		PressAction: "default",
	})
}

// NewMessage builds a message with a fresh id.
func NewMessage(level Level, text, detail string) Message {
	return Message{
		ID:      uuid.NewString(),
		Level:   level,
		Text:    text,
		Detail:  detail,
		ShownAt: time.Now(),
	}
}
