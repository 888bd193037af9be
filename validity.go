package verbiage

// LocaleValidator compares a requested locale set with the stored one.
type LocaleValidator struct {
	repo *Repository
}

// NewLocaleValidator creates a validator reading from repo.
func NewLocaleValidator(repo *Repository) *LocaleValidator {
	return &LocaleValidator{repo: repo}
}

// IsUnchanged reports whether a non-empty locale set is stored and equals
// requested, ignoring order. Neither set is mutated.
func (v *LocaleValidator) IsUnchanged(requested LocaleSet) bool {
	stored := v.repo.Locales()
	if len(stored) == 0 {
		return false
	}
	return stored.Equal(requested)
}

// IntegrityChecker verifies that every stored locale has a terms entry.
type IntegrityChecker struct {
	repo *Repository
}

// NewIntegrityChecker creates a checker reading from repo.
func NewIntegrityChecker(repo *Repository) *IntegrityChecker {
	return &IntegrityChecker{repo: repo}
}

// IsComplete reports whether the stored locale set is non-empty and each of
// its locales has a terms entry. Empty entries count as present.
func (c *IntegrityChecker) IsComplete() bool {
	stored := c.repo.Locales()
	if len(stored) == 0 {
		return false
	}
	for _, locale := range stored {
		if !c.repo.HasTerms(locale) {
			return false
		}
	}
	return true
}
