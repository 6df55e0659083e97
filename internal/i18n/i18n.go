// Package i18n holds the report string catalogues and locale negotiation.
package i18n

import (
	"golang.org/x/text/language"
)

// Supported languages; the first entry is the fallback
var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

// Translator looks up strings for one language. The zero value is English.
type Translator struct {
	tag     language.Tag
	strings map[string]string
}

// New returns a translator for tag, falling back to the closest supported language
func New(tag language.Tag) Translator {
	_, idx, _ := matcher.Match(tag)
	t := supported[idx]
	return Translator{tag: t, strings: catalogs[t]}
}

// Negotiate picks a language from an explicit code first, then an
// Accept-Language header, then the fallback code.
func Negotiate(explicit, acceptLanguage, fallback string) Translator {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			return New(tag)
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return New(supported[idx])
			}
		}
	}
	tag, err := language.Parse(fallback)
	if err != nil {
		tag = supported[0]
	}
	return New(tag)
}

// Supported reports whether code names a language with a catalogue
func Supported(code string) bool {
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(tag)
	return conf >= language.High
}

// Tag returns the language of the translator
func (t Translator) Tag() language.Tag {
	if t.strings == nil {
		return supported[0]
	}
	return t.tag
}

// T returns the string for key; unknown keys come back unchanged
func (t Translator) T(key string) string {
	m := t.strings
	if m == nil {
		m = catalogs[supported[0]]
	}
	if s, ok := m[key]; ok {
		return s
	}
	return key
}
