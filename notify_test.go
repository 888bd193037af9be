package verbiage

import (
	"context"
	"errors"
	"testing"
)

func TestNotifiers(t *testing.T) {
	var got []Event
	record := NotifierFunc(func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	fail := NotifierFunc(func(context.Context, Event) error {
		return errors.New("listener down")
	})

	err := Notifiers{record, fail, record}.Notify(context.Background(), EventLoadingStarted)

	if err == nil {
		t.Error("Expected joined error")
	}
	if len(got) != 2 || got[0] != EventLoadingStarted {
		t.Errorf("Expected every notifier to run, got %v", got)
	}
}
