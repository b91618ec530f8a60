package metadata

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en_US"

// NormalizeLanguage turns a language tag such as "en-us", "de" or "fr_FR"
// into the "ll_RR" form Data Dragon publishes, e.g. "en_US" or "de_DE".
func NormalizeLanguage(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	return base.String() + "_" + region.String(), nil
}
