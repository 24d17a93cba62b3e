package host

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// EnvLocale derives the process locale from POSIX locale variables.
type EnvLocale struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultLocale returns the first usable tag from LC_ALL, LC_MESSAGES, and
// LANG, or en-US.
func (e EnvLocale) DefaultLocale() language.Tag {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := posixLocale(getenv(name)); ok {
			return tag
		}
	}
	return language.AmericanEnglish
}

// posixLocale converts values such as "de_DE.UTF-8@euro" into a BCP 47 tag.
func posixLocale(raw string) (language.Tag, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" || raw == "C" || raw == "POSIX" {
		return language.Und, false
	}

	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// FixedLocale is a LocaleProvider that always returns the same tag.
type FixedLocale language.Tag

// DefaultLocale returns l.
func (l FixedLocale) DefaultLocale() language.Tag { return language.Tag(l) }
