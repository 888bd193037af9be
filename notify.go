package verbiage

import (
	"context"
	"errors"
)

// Event is a lifecycle signal broadcast while terms are loading.
type Event string

const (
	// EventLoadingStarted is emitted right before terms are fetched.
	EventLoadingStarted Event = "verbiage:loading-started"
	// EventLoadingFinished is emitted once fetched terms are persisted.
	EventLoadingFinished Event = "verbiage:loading-finished"
)

// Notifier receives lifecycle events. Errors are logged by the Syncer and
// never abort a sync.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Notifiers fans an event out to several notifiers.
type Notifiers []Notifier

// Notify delivers event to every notifier and joins their errors.
func (n Notifiers) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
