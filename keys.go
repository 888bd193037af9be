package verbiage

// DefaultKeyPrefix namespaces every key written to the store.
const DefaultKeyPrefix = "verbiage:"

// Key suffixes.
const (
	SuffixLocales    = "locales"     // Comma-joined locale set
	SuffixLastUpdate = "last-update" // JSON UpdateTimestamps
	SuffixTerms      = "terms:"      // JSON TermMap, followed by the locale code
)

// Keys derives store keys from a prefix.
type Keys struct {
	Prefix string
}

// NewKeys returns Keys for prefix, falling back to DefaultKeyPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{Prefix: prefix}
}

// Locales returns the key holding the stored locale set.
func (k Keys) Locales() string {
	return k.Prefix + SuffixLocales
}

// LastUpdate returns the key holding the stored update timestamps.
func (k Keys) LastUpdate() string {
	return k.Prefix + SuffixLastUpdate
}

// Terms returns the key holding the terms of locale.
func (k Keys) Terms(locale string) string {
	return k.Prefix + SuffixTerms + locale
}
