package verbiage

import (
	"errors"
	"testing"
)

func TestKeys(t *testing.T) {
	k := NewKeys("")
	if k.Locales() != "verbiage:locales" {
		t.Errorf("Locales() = %q", k.Locales())
	}
	if k.LastUpdate() != "verbiage:last-update" {
		t.Errorf("LastUpdate() = %q", k.LastUpdate())
	}
	if k.Terms("en") != "verbiage:terms:en" {
		t.Errorf("Terms(en) = %q", k.Terms("en"))
	}

	custom := NewKeys("app:")
	if custom.Terms("se") != "app:terms:se" {
		t.Errorf("Terms(se) = %q", custom.Terms("se"))
	}
}

func TestRepository_Locales(t *testing.T) {
	repo, store := newTestRepository(nil)

	if got := repo.Locales(); len(got) != 0 {
		t.Errorf("Expected empty set, got %v", got)
	}

	if err := repo.SetLocales(LocaleSet{}); err != nil {
		t.Fatalf("SetLocales failed: %v", err)
	}
	if len(store.sets) != 0 {
		t.Error("Empty set should not be written")
	}

	if err := repo.SetLocales(LocaleSet{"en", "se"}); err != nil {
		t.Fatalf("SetLocales failed: %v", err)
	}
	if store.data["verbiage:locales"] != "en,se" {
		t.Errorf("stored = %q", store.data["verbiage:locales"])
	}
	if got := repo.Locales(); !got.Equal(LocaleSet{"en", "se"}) {
		t.Errorf("Locales() = %v", got)
	}

	if err := repo.RemoveLocales(); err != nil {
		t.Fatalf("RemoveLocales failed: %v", err)
	}
	if len(repo.Locales()) != 0 {
		t.Error("Expected locales removed")
	}
}

func TestRepository_LastUpdate(t *testing.T) {
	repo, store := newTestRepository(nil)

	if _, ok := repo.LastUpdate(); ok {
		t.Error("Expected no baseline")
	}

	if err := repo.SetLastUpdate(UpdateTimestamps{}); err != nil {
		t.Fatalf("SetLastUpdate failed: %v", err)
	}
	if len(store.sets) != 0 {
		t.Error("Zero timestamps should not be written")
	}

	ts := UpdateTimestamps{Verbiages: EpochTimestamp(10), Terms: EpochTimestamp(20)}
	if err := repo.SetLastUpdate(ts); err != nil {
		t.Fatalf("SetLastUpdate failed: %v", err)
	}
	if store.data["verbiage:last-update"] != `{"verbiages":10,"terms":20}` {
		t.Errorf("stored = %q", store.data["verbiage:last-update"])
	}

	got, ok := repo.LastUpdate()
	if !ok || got.Terms.String() != "20" {
		t.Errorf("LastUpdate() = %+v, %v", got, ok)
	}

	store.data["verbiage:last-update"] = "garbage"
	if _, ok := repo.LastUpdate(); ok {
		t.Error("Corrupt baseline should read as missing")
	}
}

func TestRepository_Terms(t *testing.T) {
	repo, store := newTestRepository(map[string]string{
		"verbiage:terms:blank":   "",
		"verbiage:terms:null":    "null",
		"verbiage:terms:corrupt": "{oops",
	})

	for _, locale := range []string{"missing", "blank", "null", "corrupt"} {
		if _, ok := repo.Terms(locale); ok {
			t.Errorf("Terms(%q) should report false", locale)
		}
	}
	if !repo.HasTerms("corrupt") {
		t.Error("HasTerms should only check existence")
	}

	if err := repo.SetTerms("en", TermMap{"a": "b"}); err != nil {
		t.Fatalf("SetTerms failed: %v", err)
	}
	if store.data["verbiage:terms:en"] != `{"a":"b"}` {
		t.Errorf("stored = %q", store.data["verbiage:terms:en"])
	}
	terms, ok := repo.Terms("en")
	if !ok || terms.String("a") != "b" {
		t.Errorf("Terms(en) = %v, %v", terms, ok)
	}
}

func TestRepository_RemoveTermsAttemptsAll(t *testing.T) {
	repo, store := newTestRepository(map[string]string{
		"verbiage:terms:en": "{}",
		"verbiage:terms:se": "{}",
	})
	store.failRemove = map[string]bool{"verbiage:terms:en": true}

	err := repo.RemoveTerms(LocaleSet{"en", "se"})

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Key != "verbiage:terms:en" {
		t.Errorf("Expected StoreError for en, got %v", err)
	}
	if _, ok := store.data["verbiage:terms:se"]; ok {
		t.Error("se should still be removed")
	}
}
