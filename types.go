package verbiage

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLocales is the locale set requested when none is configured.
var DefaultLocales = LocaleSet{"en", "se"}

// LocaleSet is an unordered collection of locale codes (e.g. "en", "se").
type LocaleSet []string

// ParseLocaleSet splits a comma-joined locale list. An empty string yields
// an empty set.
func ParseLocaleSet(s string) LocaleSet {
	if s == "" {
		return LocaleSet{}
	}
	return LocaleSet(strings.Split(s, ","))
}

// String returns the comma-joined form used both for storage and for the
// generate request.
func (s LocaleSet) String() string {
	return strings.Join(s, ",")
}

// Sorted returns a sorted copy; the receiver is left untouched.
func (s LocaleSet) Sorted() LocaleSet {
	out := make(LocaleSet, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same codes, ignoring order.
// Duplicates count.
func (s LocaleSet) Equal(other LocaleSet) bool {
	if len(s) != len(other) {
		return false
	}
	a, b := s.Sorted(), other.Sorted()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Contains reports whether locale is in the set.
func (s LocaleSet) Contains(locale string) bool {
	for _, l := range s {
		if l == locale {
			return true
		}
	}
	return false
}

// TermMap holds every term of one locale. Values are strings or nested
// objects, as delivered by the remote service.
type TermMap map[string]any

// Lookup resolves a term key. A key present verbatim wins; otherwise the key
// is treated as a dot-separated path into nested objects.
func (m TermMap) Lookup(key string) (string, bool) {
	if v, ok := m[key]; ok {
		return scalarString(v)
	}

	var cur any = m
	for _, part := range strings.Split(key, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return "", false
		}
		if cur, ok = obj[part]; !ok {
			return "", false
		}
	}
	return scalarString(cur)
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case TermMap:
		return obj, true
	default:
		return nil, false
	}
}

// String returns the term for key, or an empty string when it is missing.
func (m TermMap) String(key string) string {
	v, _ := m.Lookup(key)
	return v
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64, bool, int, int64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

// TermsByLocale maps a locale code to its terms.
type TermsByLocale map[string]TermMap

// Locales returns the locale codes present in the mapping, sorted.
func (t TermsByLocale) Locales() LocaleSet {
	out := make(LocaleSet, 0, len(t))
	for l := range t {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// UpdateTimestamps records when each remote data category last changed.
type UpdateTimestamps struct {
	Verbiages Timestamp `json:"verbiages"`
	Terms     Timestamp `json:"terms"`
}

// IsZero reports whether neither field carries a value.
func (u UpdateTimestamps) IsZero() bool {
	return u.Verbiages.IsZero() && u.Terms.IsZero()
}

// NewerThan reports whether either field of u is chronologically after the
// matching field of old.
func (u UpdateTimestamps) NewerThan(old UpdateTimestamps) bool {
	return u.Verbiages.After(old.Verbiages) || u.Terms.After(old.Terms)
}

// State is a step of the sync state machine.
type State int

const (
	StateInit State = iota
	StateDeciding
	StateClearing
	StateCheckingStaleness
	StateFetching
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDeciding:
		return "deciding"
	case StateClearing:
		return "clearing"
	case StateCheckingStaleness:
		return "checking_staleness"
	case StateFetching:
		return "fetching"
	case StateIdle:
		return "idle"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is the branch a sync run took.
type Decision string

const (
	// DecisionFresh means the cache was valid and only staleness was checked.
	DecisionFresh Decision = "fresh"
	// DecisionStale means the cache was invalid and got rebuilt.
	DecisionStale Decision = "stale"
)

// SyncResult describes a completed sync run.
type SyncResult struct {
	Decision       Decision // Branch taken
	Fetched        bool     // Whether terms were fetched from the remote
	LocalesWritten int      // Number of locales persisted from the fetch
}
