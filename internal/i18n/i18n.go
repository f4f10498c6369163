// Package i18n holds the English and Polish interface strings.
//
// Message keys are the English text, so an English printer renders every key
// unchanged and a Polish printer falls back to English for anything missing.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the interface languages; the first one is the default.
var Supported = []language.Tag{language.English, language.Polish}

var (
	matcher = language.NewMatcher(Supported)
	builder = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, pl := range polish {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Polish, key, pl)
	}
	return b
}

// Localizer renders interface strings in one language. The zero value
// renders English.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for tag, which should be one of Supported.
func New(tag language.Tag) Localizer {
	return Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// T translates key, formatting args into its verbs.
func (l Localizer) T(key string, args ...any) string {
	if l.printer == nil {
		l = New(language.English)
	}
	return l.printer.Sprintf(key, args...)
}

// Lang is the language's base code, as used in the html lang attribute.
func (l Localizer) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// Match picks the supported language that best fits prefs. Each pref is an
// Accept-Language style list; earlier prefs win. With nothing usable the
// default is returned.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, i, _ := matcher.Match(tags...)
	return Supported[i]
}

// CookieName stores an explicit language choice between requests.
const CookieName = "lang"

// FromRequest picks the language for r from the lang query parameter, then
// the lang cookie, then Accept-Language.
func FromRequest(r *http.Request) Localizer {
	var cookie string
	if c, err := r.Cookie(CookieName); err == nil {
		cookie = c.Value
	}
	return New(Match(r.URL.Query().Get("lang"), cookie, r.Header.Get("Accept-Language")))
}
