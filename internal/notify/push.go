package notify

import (
	"context"
	"sync"

	"github.com/xeno347/supervisor-final/internal/api"
)

// PushNotifier delivers native notifications by POSTing them to a push gateway.
// It is unavailable when no URL is configured.
type PushNotifier struct {
	client *api.Client
	url    string

	mu       sync.Mutex
	channels map[string]Channel
}

var _ Native = (*PushNotifier)(nil)

func NewPushNotifier(client *api.Client, url string) *PushNotifier {
	if client == nil {
		client = api.NewClient()
	}
	return &PushNotifier{
		client:   client,
		url:      url,
		channels: make(map[string]Channel),
	}
}

func (p *PushNotifier) Available() bool {
	return p != nil && p.url != ""
}

// EnsureChannel registers the channel locally; its attributes travel with each push.
func (p *PushNotifier) EnsureChannel(_ context.Context, ch Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[ch.ID] = ch
	return nil
}

type pushPayload struct {
	Notification
	Channel *Channel `json:"channel,omitempty"`
}

func (p *PushNotifier) Display(ctx context.Context, n Notification) error {
	p.mu.Lock()
	var ch *Channel
	if c, ok := p.channels[n.ChannelID]; ok {
		ch = &c
	}
	p.mu.Unlock()

	_, err := p.client.POST(ctx, p.url, pushPayload{Notification: n, Channel: ch})
	return err
}
