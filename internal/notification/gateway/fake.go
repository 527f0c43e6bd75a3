package gateway

import (
	"context"
	"sync"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification"
)

// Fake is a recording gateway for tests and local development. It returns a
// configurable tally or error and remembers every call.
type Fake struct {
	mu    sync.Mutex
	calls []FakeCall

	Tally notification.Tally
	Err   error

	// Delay, when set, is how long Send waits on ctx before answering;
	// lets tests exercise dispatch timeouts.
	Delay func(ctx context.Context) error
}

// FakeCall captures the arguments of one Send invocation.
type FakeCall struct {
	Audience notification.Audience
	Title    string
	Body     string
}

func (f *Fake) Send(ctx context.Context, audience notification.Audience, title, body string) (notification.Tally, error) {
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Audience: audience, Title: title, Body: body})
	f.mu.Unlock()

	if f.Delay != nil {
		if err := f.Delay(ctx); err != nil {
			return notification.Tally{}, err
		}
	}
	if f.Err != nil {
		return notification.Tally{}, f.Err
	}
	return f.Tally, nil
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallCount reports how many times Send was invoked.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
