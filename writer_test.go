package verbiage

import (
	"errors"
	"testing"
)

func TestTermWriter_RejectsEmptyPayload(t *testing.T) {
	payloads := map[string]TermsByLocale{
		"nil":   nil,
		"empty": {},
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			repo, store := newTestRepository(map[string]string{"verbiage:locales": "en,se"})
			var diagnosed error
			w := NewTermWriter(repo, func(err error) { diagnosed = err })

			written, err := w.Persist(payload)
			if err != nil {
				t.Fatalf("Persist failed: %v", err)
			}
			if written != 0 || len(store.sets) != 0 {
				t.Errorf("Expected zero writes, got %d (%v)", written, store.sets)
			}
			if !errors.Is(diagnosed, ErrMalformedPayload) {
				t.Errorf("Expected ErrMalformedPayload diagnostic, got %v", diagnosed)
			}
		})
	}
}

func TestTermWriter_PartialPayload(t *testing.T) {
	repo, store := newTestRepository(map[string]string{
		"verbiage:locales":  "en,se",
		"verbiage:terms:se": `{"greeting":"Hej"}`,
	})
	w := NewTermWriter(repo, nil)

	written, err := w.Persist(TermsByLocale{
		"en": {"greeting": "Hello"},
		"se": {},
	})
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if written != 1 {
		t.Errorf("Expected 1 locale written, got %d", written)
	}
	if len(store.sets) != 1 || store.sets[0] != "verbiage:terms:en" {
		t.Errorf("Expected only the en key to be written, got %v", store.sets)
	}
	if store.data["verbiage:terms:se"] != `{"greeting":"Hej"}` {
		t.Errorf("se terms should be untouched, got %q", store.data["verbiage:terms:se"])
	}
}

func TestTermWriter_OnlyStoredLocales(t *testing.T) {
	repo, store := newTestRepository(map[string]string{"verbiage:locales": "en"})
	w := NewTermWriter(repo, nil)

	written, err := w.Persist(TermsByLocale{
		"en": {"greeting": "Hello"},
		"fr": {"greeting": "Bonjour"},
	})
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if written != 1 {
		t.Errorf("Expected 1 locale written, got %d", written)
	}
	if _, ok := store.data["verbiage:terms:fr"]; ok {
		t.Error("Locale outside the stored set should not be written")
	}
}

func TestTermWriter_NoStoredLocales(t *testing.T) {
	repo, store := newTestRepository(nil)
	written, err := NewTermWriter(repo, nil).Persist(TermsByLocale{"en": {"a": "b"}})
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if written != 0 || len(store.sets) != 0 {
		t.Errorf("Expected nothing written without a stored locale set, got %v", store.sets)
	}
}

func TestTermWriter_StoreFailure(t *testing.T) {
	repo, store := newTestRepository(map[string]string{"verbiage:locales": "en,se"})
	store.failSet["verbiage:terms:en"] = true

	written, err := NewTermWriter(repo, nil).Persist(TermsByLocale{
		"en": {"a": "b"},
		"se": {"a": "c"},
	})

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected StoreError, got %v", err)
	}
	if written != 1 {
		t.Errorf("Expected the other locale to be written, got %d", written)
	}
}
