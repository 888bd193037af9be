package verbiage_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/ZaguanLabs/verbiage"
	"github.com/ZaguanLabs/verbiage/markup"
	"github.com/ZaguanLabs/verbiage/remote"
	"github.com/ZaguanLabs/verbiage/store"
)

// Integration tests using all real components

func TestIntegration_MemoryStoreMockSource(t *testing.T) {
	st := store.NewMemoryStore()
	src := remote.NewMockSource()
	ctx := context.Background()

	syncer, result, err := verbiage.Open(ctx, st, src)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if result.Decision != verbiage.DecisionStale || result.LocalesWritten != 2 {
		t.Errorf("unexpected first result: %+v", result)
	}

	terms := syncer.Terms()
	if terms["se"].String("greeting.hello") != "Hej" {
		t.Errorf("Expected Swedish greeting, got %v", terms["se"])
	}

	// A second instance over the same store serves from cache.
	_, result, err = verbiage.Open(ctx, st, src)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if result.Decision != verbiage.DecisionFresh || result.Fetched {
		t.Errorf("expected fresh cache, got %+v", result)
	}
	if _, gen := src.Calls(); gen != 1 {
		t.Errorf("expected 1 generate call, got %d", gen)
	}
}

func TestIntegration_BoltSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	src := remote.NewMockSource()
	ctx := context.Background()

	st, err := store.OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	if _, _, err := verbiage.Open(ctx, st, src); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st.Close()

	st, err = store.OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	src.LastUpdateErr = errors.New("offline")
	syncer := verbiage.New(st, src)
	if !syncer.Valid() {
		t.Error("cache should still be valid after restart")
	}
	if syncer.Terms()["en"].String("title") != "Welcome" {
		t.Errorf("unexpected terms after restart: %v", syncer.Terms())
	}

	// Going offline surfaces the error but keeps the cache readable.
	if _, err := syncer.Sync(ctx); err == nil {
		t.Error("expected error while offline")
	}
	if syncer.Terms()["en"].String("title") != "Welcome" {
		t.Error("terms should survive a failed sync")
	}
}

func TestIntegration_HTTPSourceSQLiteStore(t *testing.T) {
	var stamp atomic.Int64
	stamp.Store(1000)
	var generates atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/last-update":
			w.Write([]byte(`{"verbiages":` + strconv.FormatInt(stamp.Load(), 10) + `,"terms":1000}`))
		case "/generate":
			generates.Add(1)
			w.Write([]byte(`{"en":{"title":"Welcome v` + strconv.Itoa(int(generates.Load())) + `"},"de":{"title":"Willkommen"}}`))
		}
	}))
	defer srv.Close()

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer st.Close()

	src := remote.NewHTTPSource(remote.HTTPConfig{BaseURL: srv.URL})
	locales := verbiage.WithLocales(verbiage.LocaleSet{"en", "de"})
	ctx := context.Background()

	syncer, _, err := verbiage.Open(ctx, st, src, locales)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := syncer.Terms()["en"].String("title"); got != "Welcome v1" {
		t.Errorf("title = %q", got)
	}

	// Unchanged remote: no refetch.
	if _, err := syncer.Sync(ctx); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if generates.Load() != 1 {
		t.Errorf("expected 1 generate, got %d", generates.Load())
	}

	// Newer remote: refetch.
	stamp.Store(2000)
	result, err := syncer.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if !result.Fetched || syncer.Terms()["en"].String("title") != "Welcome v2" {
		t.Errorf("expected refetch, got %+v / %v", result, syncer.Terms())
	}
}

func TestIntegration_RenderFromCache(t *testing.T) {
	st := store.NewMemoryStore()
	syncer, _, err := verbiage.Open(context.Background(), st, remote.NewMockSource())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	result, err := markup.NewRenderer().Render(
		`<html><body><h1 data-verbiage="title">Welcome</h1></body></html>`,
		"se", syncer.Terms()["se"])
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.Replaced != 1 {
		t.Errorf("expected 1 replacement, got %d: %s", result.Replaced, result.Content)
	}
}

func TestIntegration_ExportSeedsNewStore(t *testing.T) {
	src := store.NewMemoryStore()
	if _, _, err := verbiage.Open(context.Background(), src, remote.NewMockSource()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if _, err := store.NewExporter(src).ExportToFile(path, verbiage.DefaultKeyPrefix, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := store.NewMemoryStore()
	if _, err := store.NewImporter(dst).ImportFromFile(path); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	mock := remote.NewMockSource()
	_, result, err := verbiage.Open(context.Background(), dst, mock)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if result.Fetched {
		t.Error("seeded store should not need a fetch")
	}
}
