package settings

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale parses a recognizer culture identifier such as "en-US".
//
// Recognizer cultures are plain language[-script][-region] identifiers, so
// tags carrying extensions or private-use subtags are rejected along with
// anything language.Parse refuses.
func ParseLocale(raw string) (language.Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und, fmt.Errorf("locale is empty")
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", raw, err)
	}
	if tag == language.Und {
		return language.Und, fmt.Errorf("locale %q is undetermined", raw)
	}
	if len(tag.Extensions()) > 0 {
		return language.Und, fmt.Errorf("locale %q carries extension subtags", raw)
	}
	if _, confidence := tag.Base(); confidence != language.Exact {
		return language.Und, fmt.Errorf("locale %q has no explicit language", raw)
	}
	return tag, nil
}
