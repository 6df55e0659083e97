package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTranslator_T(t *testing.T) {
	en := New(language.English)
	es := New(language.Spanish)

	assert.Equal(t, "Right Ear", en.T("right_ear"))
	assert.Equal(t, "Oído Derecho", es.T("right_ear"))
	assert.Equal(t, "Moderada-Severa", es.T("moderate_severe"))
	assert.Equal(t, "unknown_key", es.T("unknown_key"))

	var zero Translator
	assert.Equal(t, "Left Ear", zero.T("left_ear"))
	assert.Equal(t, language.English, zero.Tag())
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[language.English] {
		_, ok := catalogs[language.Spanish][key]
		assert.True(t, ok, "spanish catalogue misses %q", key)
	}
	assert.Len(t, catalogs[language.Spanish], len(catalogs[language.English]))
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		accept   string
		fallback string
		want     language.Tag
	}{
		{"explicit wins", "es", "en-US,en;q=0.9", "en", language.Spanish},
		{"regional explicit", "es-MX", "", "en", language.Spanish},
		{"accept header", "", "es-ES,es;q=0.9,en;q=0.5", "en", language.Spanish},
		{"accept header prefers english", "", "en-GB,es;q=0.5", "es", language.English},
		{"unsupported header uses fallback", "", "de-DE", "es", language.Spanish},
		{"garbage explicit uses header", "??", "es", "en", language.Spanish},
		{"nothing set", "", "", "", language.English},
		{"unsupported fallback", "", "", "fr", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Negotiate(tt.explicit, tt.accept, tt.fallback)
			assert.Equal(t, tt.want, got.Tag())
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("en"))
	assert.True(t, Supported("es"))
	assert.False(t, Supported("de"))
	assert.False(t, Supported("not a tag"))
}
