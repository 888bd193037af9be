package verbiage

import (
	"encoding/json"
	"errors"
)

// Store is the persistent key-value storage the cache lives in.
type Store interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Remove(key string) error
}

// Repository groups the three key families (locale set, update timestamps,
// per-locale terms) behind typed accessors. It performs no validation of its
// own; the validator, checker, detector and writer decide what to write.
type Repository struct {
	store Store
	keys  Keys
}

// NewRepository creates a repository over store using keys.
func NewRepository(store Store, keys Keys) *Repository {
	return &Repository{store: store, keys: keys}
}

// Keys returns the key layout in use.
func (r *Repository) Keys() Keys {
	return r.keys
}

// Locales returns the stored locale set, or an empty set.
func (r *Repository) Locales() LocaleSet {
	raw, ok := r.store.Get(r.keys.Locales())
	if !ok {
		return LocaleSet{}
	}
	return ParseLocaleSet(raw)
}

// SetLocales stores locales. Empty sets are not written.
func (r *Repository) SetLocales(locales LocaleSet) error {
	if len(locales) == 0 {
		return nil
	}
	return r.set(r.keys.Locales(), locales.String())
}

// RemoveLocales deletes the stored locale set.
func (r *Repository) RemoveLocales() error {
	return r.remove(r.keys.Locales())
}

// LastUpdate returns the stored timestamps. A missing or unparseable value
// reports false.
func (r *Repository) LastUpdate() (UpdateTimestamps, bool) {
	raw, ok := r.store.Get(r.keys.LastUpdate())
	if !ok {
		return UpdateTimestamps{}, false
	}
	var ts UpdateTimestamps
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		return UpdateTimestamps{}, false
	}
	return ts, true
}

// SetLastUpdate stores ts. Empty timestamps are not written.
func (r *Repository) SetLastUpdate(ts UpdateTimestamps) error {
	if ts.IsZero() {
		return nil
	}
	data, err := json.Marshal(ts)
	if err != nil {
		return &StoreError{Op: "set", Key: r.keys.LastUpdate(), Cause: err}
	}
	return r.set(r.keys.LastUpdate(), string(data))
}

// RemoveLastUpdate deletes the stored timestamps.
func (r *Repository) RemoveLastUpdate() error {
	return r.remove(r.keys.LastUpdate())
}

// HasTerms reports whether a terms entry exists for locale. Contents are not
// inspected.
func (r *Repository) HasTerms(locale string) bool {
	_, ok := r.store.Get(r.keys.Terms(locale))
	return ok
}

// Terms returns the stored terms of locale. Missing, blank or unparseable
// entries report false.
func (r *Repository) Terms(locale string) (TermMap, bool) {
	raw, ok := r.store.Get(r.keys.Terms(locale))
	if !ok || raw == "" {
		return nil, false
	}
	var terms TermMap
	if err := json.Unmarshal([]byte(raw), &terms); err != nil || terms == nil {
		return nil, false
	}
	return terms, true
}

// SetTerms stores the terms of locale.
func (r *Repository) SetTerms(locale string, terms TermMap) error {
	data, err := json.Marshal(terms)
	if err != nil {
		return &StoreError{Op: "set", Key: r.keys.Terms(locale), Cause: err}
	}
	return r.set(r.keys.Terms(locale), string(data))
}

// RemoveTerms deletes the terms of every locale given. All removals are
// attempted; failures are joined.
func (r *Repository) RemoveTerms(locales LocaleSet) error {
	var errs []error
	for _, locale := range locales {
		if err := r.remove(r.keys.Terms(locale)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) set(key, value string) error {
	if err := r.store.Set(key, value); err != nil {
		return &StoreError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

func (r *Repository) remove(key string) error {
	if err := r.store.Remove(key); err != nil {
		return &StoreError{Op: "remove", Key: key, Cause: err}
	}
	return nil
}
