package verbiage

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// rtlLanguages contains base language codes written right-to-left.
var rtlLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
	"yi": true, // Yiddish
}

// ValidateLocales checks that every code is a well-formed BCP 47 tag (both
// "sv-SE" and "sv_SE" are accepted) and that the set holds no duplicates.
func ValidateLocales(locales LocaleSet) error {
	if len(locales) == 0 {
		return fmt.Errorf("locale set is empty")
	}
	seen := make(map[string]bool, len(locales))
	for _, locale := range locales {
		if strings.Contains(locale, ",") {
			return fmt.Errorf("locale %q contains a comma", locale)
		}
		if _, err := language.Parse(ToBCP47(locale)); err != nil {
			return fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		if seen[locale] {
			return fmt.Errorf("duplicate locale %q", locale)
		}
		seen[locale] = true
	}
	return nil
}

// LocaleName returns the English display name of a locale code, falling back
// to the code itself.
func LocaleName(locale string) string {
	tag, err := language.Parse(ToBCP47(locale))
	if err != nil {
		return locale
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return locale
}

// Direction returns "rtl" for right-to-left languages, "ltr" otherwise.
func Direction(locale string) string {
	tag, err := language.Parse(ToBCP47(locale))
	if err != nil {
		return "ltr"
	}
	base, _ := tag.Base()
	if rtlLanguages[base.String()] {
		return "rtl"
	}
	return "ltr"
}

// ToBCP47 converts a locale code to hyphenated form (e.g. "sv_SE" → "sv-SE").
func ToBCP47(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}
