package verbiage

import "errors"

// TermWriter persists fetched terms for the stored locale set.
type TermWriter struct {
	repo        *Repository
	diagnostics func(error)
}

// NewTermWriter creates a writer over repo. diagnostics may be nil.
func NewTermWriter(repo *Repository, diagnostics func(error)) *TermWriter {
	return &TermWriter{repo: repo, diagnostics: diagnostics}
}

// Persist writes the terms of every stored locale that has a non-empty entry
// in terms and returns how many locales were written. Locales missing or
// empty in terms keep whatever was stored before. Keys of terms outside the
// stored set are ignored.
//
// An empty payload writes nothing and is reported as ErrMalformedPayload to
// the diagnostics hook only.
func (w *TermWriter) Persist(terms TermsByLocale) (int, error) {
	if len(terms) == 0 {
		w.report(ErrMalformedPayload)
		return 0, nil
	}

	written := 0
	var errs []error
	for _, locale := range w.repo.Locales() {
		localeTerms := terms[locale]
		if len(localeTerms) == 0 {
			continue
		}
		if err := w.repo.SetTerms(locale, localeTerms); err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

func (w *TermWriter) report(err error) {
	if w.diagnostics != nil {
		w.diagnostics(err)
	}
}
