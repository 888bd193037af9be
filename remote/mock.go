package remote

import (
	"context"
	"sync"

	"github.com/ZaguanLabs/verbiage"
)

// MockSource is a scripted remote for testing and examples. Generate returns
// only the requested locales that are present in Terms.
type MockSource struct {
	Updated       UpdateTimestamps
	Terms         TermsByLocale
	LastUpdateErr error
	GenerateErr   error

	mu              sync.Mutex
	lastUpdateCalls int
	generateCalls   int
	lastLocales     verbiage.LocaleSet
	lastTag         string
}

// NewMockSource creates a mock source with a fixed timestamp and a small
// English/Swedish vocabulary.
func NewMockSource() *MockSource {
	return &MockSource{
		Updated: UpdateTimestamps{
			Verbiages: verbiage.EpochTimestamp(1709287200000),
			Terms:     verbiage.EpochTimestamp(1709287200000),
		},
		Terms: TermsByLocale{
			"en": {"greeting": map[string]any{"hello": "Hello"}, "title": "Welcome"},
			"se": {"greeting": map[string]any{"hello": "Hej"}, "title": "Välkommen"},
		},
	}
}

// LastUpdate returns Updated or LastUpdateErr.
func (m *MockSource) LastUpdate(ctx context.Context) (UpdateTimestamps, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpdateCalls++

	if m.LastUpdateErr != nil {
		return UpdateTimestamps{}, m.LastUpdateErr
	}
	return m.Updated, nil
}

// Generate returns the requested subset of Terms or GenerateErr.
func (m *MockSource) Generate(ctx context.Context, locales verbiage.LocaleSet, tag string) (TermsByLocale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls++
	m.lastLocales = append(verbiage.LocaleSet(nil), locales...)
	m.lastTag = tag

	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}

	out := make(TermsByLocale, len(locales))
	for _, locale := range locales {
		if terms, ok := m.Terms[locale]; ok {
			out[locale] = terms
		}
	}
	return out, nil
}

// Calls returns how often LastUpdate and Generate were called.
func (m *MockSource) Calls() (lastUpdate, generate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpdateCalls, m.generateCalls
}

// LastRequest returns the locales and tag of the last Generate call.
func (m *MockSource) LastRequest() (verbiage.LocaleSet, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLocales, m.lastTag
}

// Reset clears the call counters.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpdateCalls = 0
	m.generateCalls = 0
	m.lastLocales = nil
	m.lastTag = ""
}

// Verify MockSource implements Source
var _ Source = (*MockSource)(nil)
