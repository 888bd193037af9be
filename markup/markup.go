// Package markup fills HTML documents with cached verbiage terms.
//
// Elements opt in through attributes:
//
//	<h1 data-verbiage="page.title">Welcome</h1>
//	<input data-verbiage-attr="placeholder:form.search,title:form.hint">
//
// Text content and attribute values are replaced with the terms found;
// elements whose keys are missing are left as authored.
package markup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/verbiage"
	"golang.org/x/net/html"
)

const (
	// TextAttr names the term whose value replaces an element's text.
	TextAttr = "data-verbiage"
	// AttrAttr lists attribute:key pairs to fill, comma separated.
	AttrAttr = "data-verbiage-attr"
	// SkipAttr excludes an element and its descendants.
	SkipAttr = "data-no-verbiage"
)

// Error reports a document that could not be parsed or serialized.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("markup error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("markup error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RenderResult is the outcome of a render pass.
type RenderResult struct {
	Content  string
	Replaced int      // Number of text nodes and attributes filled
	Missing  []string // Sorted, de-duplicated keys with no term
}

// Renderer applies a TermMap to HTML.
type Renderer struct {
	setLang bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithoutLang leaves the <html> lang and dir attributes untouched.
func WithoutLang() Option {
	return func(r *Renderer) {
		r.setLang = false
	}
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{setLang: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fills content with terms of locale.
func (r *Renderer) Render(content, locale string, terms verbiage.TermMap) (*RenderResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	result := &RenderResult{}
	missing := make(map[string]bool)

	if r.setLang && locale != "" {
		doc.Find("html").First().
			SetAttr("lang", verbiage.ToBCP47(locale)).
			SetAttr("dir", verbiage.Direction(locale))
	}

	doc.Find("[" + TextAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if skipped(s) {
			return
		}
		key := strings.TrimSpace(s.AttrOr(TextAttr, ""))
		if key == "" {
			return
		}
		value, ok := terms.Lookup(key)
		if !ok {
			missing[key] = true
			return
		}
		setText(s, value)
		result.Replaced++
	})

	doc.Find("[" + AttrAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if skipped(s) {
			return
		}
		for _, pair := range parseAttrList(s.AttrOr(AttrAttr, "")) {
			value, ok := terms.Lookup(pair.key)
			if !ok {
				missing[pair.key] = true
				continue
			}
			s.SetAttr(pair.attr, value)
			result.Replaced++
		}
	})

	out, err := doc.Html()
	if err != nil {
		return nil, &Error{Message: "failed to serialize HTML", Cause: err}
	}
	result.Content = out

	for key := range missing {
		result.Missing = append(result.Missing, key)
	}
	sort.Strings(result.Missing)

	return result, nil
}

// Keys returns every term key referenced by content, sorted.
func Keys(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	seen := make(map[string]bool)
	doc.Find("[" + TextAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if key := strings.TrimSpace(s.AttrOr(TextAttr, "")); key != "" && !skipped(s) {
			seen[key] = true
		}
	})
	doc.Find("[" + AttrAttr + "]").Each(func(_ int, s *goquery.Selection) {
		if skipped(s) {
			return
		}
		for _, pair := range parseAttrList(s.AttrOr(AttrAttr, "")) {
			seen[pair.key] = true
		}
	})

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

type attrPair struct {
	attr string
	key  string
}

// parseAttrList parses "placeholder:form.search, title:form.hint". Entries
// without both halves are ignored.
func parseAttrList(list string) []attrPair {
	var pairs []attrPair
	for _, entry := range strings.Split(list, ",") {
		attr, key, ok := strings.Cut(entry, ":")
		attr, key = strings.TrimSpace(attr), strings.TrimSpace(key)
		if !ok || attr == "" || key == "" {
			continue
		}
		pairs = append(pairs, attrPair{attr: strings.ToLower(attr), key: key})
	}
	return pairs
}

func skipped(s *goquery.Selection) bool {
	_, self := s.Attr(SkipAttr)
	return self || s.ParentsFiltered("["+SkipAttr+"]").Length() > 0
}

// setText replaces the element's text. A lone text child keeps its
// surrounding whitespace.
func setText(s *goquery.Selection, value string) {
	n := s.Get(0)
	if c := n.FirstChild; c != nil && c.NextSibling == nil && c.Type == html.TextNode {
		c.Data = preserveWhitespace(c.Data, value)
		return
	}
	s.SetText(value)
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, replacement string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailing := ""
	if trimmed := strings.TrimLeft(original, " \t\n\r"); trimmed != "" {
		trailingLen := len(trimmed) - len(strings.TrimRight(trimmed, " \t\n\r"))
		trailing = trimmed[len(trimmed)-trailingLen:]
	}

	return leading + replacement + trailing
}
