package markup

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ZaguanLabs/verbiage"
)

var testTerms = verbiage.TermMap{
	"page": map[string]any{"title": "Välkommen"},
	"form": map[string]any{"search": "Sök", "hint": "Skriv <något>"},
	"cta":  "Kom igång",
}

func TestRenderer_Text(t *testing.T) {
	r := NewRenderer()

	content := `<html><body><h1 data-verbiage="page.title">
		Welcome
	</h1><a data-verbiage="cta">Get started</a></body></html>`

	result, err := r.Render(content, "sv", testTerms)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if result.Replaced != 2 {
		t.Errorf("Replaced = %d, want 2", result.Replaced)
	}
	if !strings.Contains(result.Content, "\n\t\tVälkommen\n\t</h1>") {
		t.Errorf("whitespace not preserved: %s", result.Content)
	}
	if !strings.Contains(result.Content, ">Kom igång</a>") {
		t.Errorf("cta not replaced: %s", result.Content)
	}
	if len(result.Missing) != 0 {
		t.Errorf("Missing = %v", result.Missing)
	}
}

func TestRenderer_Attributes(t *testing.T) {
	r := NewRenderer()

	content := `<input data-verbiage-attr="placeholder:form.search, Title:form.hint, bogus, alt:nope">`

	result, err := r.Render(content, "sv", testTerms)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(result.Content, `placeholder="Sök"`) {
		t.Errorf("placeholder not set: %s", result.Content)
	}
	if !strings.Contains(result.Content, `title="Skriv &lt;något&gt;"`) {
		t.Errorf("title not set or not escaped: %s", result.Content)
	}
	if !reflect.DeepEqual(result.Missing, []string{"nope"}) {
		t.Errorf("Missing = %v", result.Missing)
	}
	if result.Replaced != 2 {
		t.Errorf("Replaced = %d", result.Replaced)
	}
}

func TestRenderer_MissingKeepsContent(t *testing.T) {
	result, err := NewRenderer().Render(`<p data-verbiage="absent">Original</p><p data-verbiage="absent">Again</p>`, "en", testTerms)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(result.Content, "Original") || !strings.Contains(result.Content, "Again") {
		t.Errorf("content changed: %s", result.Content)
	}
	if !reflect.DeepEqual(result.Missing, []string{"absent"}) {
		t.Errorf("Missing = %v", result.Missing)
	}
}

func TestRenderer_EscapesText(t *testing.T) {
	terms := verbiage.TermMap{"x": "<b>bold</b>"}
	result, err := NewRenderer().Render(`<p data-verbiage="x"><i>old</i> text</p>`, "en", terms)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(result.Content, "<p data-verbiage=\"x\">&lt;b&gt;bold&lt;/b&gt;</p>") {
		t.Errorf("unexpected output: %s", result.Content)
	}
}

func TestRenderer_Skip(t *testing.T) {
	content := `<div data-no-verbiage><p data-verbiage="cta">Keep</p></div><p data-verbiage="cta" data-no-verbiage>Keep too</p>`
	result, err := NewRenderer().Render(content, "en", testTerms)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.Replaced != 0 || strings.Contains(result.Content, "Kom igång") {
		t.Errorf("skipped elements were rendered: %s", result.Content)
	}
}

func TestRenderer_Lang(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"sv_SE", `<html lang="sv-SE" dir="ltr">`},
		{"ar", `<html lang="ar" dir="rtl">`},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			result, err := NewRenderer().Render(`<html><body></body></html>`, tt.locale, nil)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !strings.Contains(result.Content, tt.want) {
				t.Errorf("Content = %s, want %s", result.Content, tt.want)
			}
		})
	}

	result, err := NewRenderer(WithoutLang()).Render(`<html><body></body></html>`, "ar", nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(result.Content, "lang=") {
		t.Errorf("lang should not be set: %s", result.Content)
	}
}

func TestKeys(t *testing.T) {
	content := `<h1 data-verbiage="page.title">x</h1>
		<input data-verbiage-attr="placeholder:form.search,title:page.title">
		<div data-no-verbiage><span data-verbiage="hidden">y</span></div>`

	keys, err := Keys(content)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"form.search", "page.title"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestPreserveWhitespace(t *testing.T) {
	tests := []struct {
		original, replacement, want string
	}{
		{"  Hello  ", "Hej", "  Hej  "},
		{"\n\tHello\n", "Hej", "\n\tHej\n"},
		{"Hello", "Hej", "Hej"},
		{"   ", "Hej", "   Hej"},
	}

	for _, tt := range tests {
		if got := preserveWhitespace(tt.original, tt.replacement); got != tt.want {
			t.Errorf("preserveWhitespace(%q, %q) = %q, want %q", tt.original, tt.replacement, got, tt.want)
		}
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Message: "failed to parse HTML", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Error should unwrap to its cause")
	}
	if err.Error() != "markup error: failed to parse HTML: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
