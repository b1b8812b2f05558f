package notify

import (
	"context"
	"sync"
)

const defaultRecorderSize = 50

// Recorder is an InApp sink that keeps the most recent messages and forwards
// each one to an optional callback.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	max      int
	onShow   func(Message)
}

func NewRecorder(max int, onShow func(Message)) *Recorder {
	if max <= 0 {
		max = defaultRecorderSize
	}
	return &Recorder{max: max, onShow: onShow}
}

func (r *Recorder) Show(_ context.Context, msg Message) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	if len(r.messages) > r.max {
		r.messages = r.messages[len(r.messages)-r.max:]
	}
	cb := r.onShow
	r.mu.Unlock()

	if cb != nil {
		cb(msg)
	}
}

// Messages returns a copy of the retained messages, oldest first.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
