package language

import "strings"

var localePrefixes = map[string]Language{
	"en": English,
	"zh": Chinese,
	"ja": Japanese,
	"ko": Korean,
	"de": German,
	"fr": French,
	"es": Spanish,
	"pt": Portuguese,
	"ru": Russian,
	"ar": Arabic,
	"th": Thai,
}

// FromLocale maps a locale tag such as "zh-CN", "pt_BR" or "ja" to a
// language. A full language label like "german" is accepted as well.
func FromLocale(locale string) (Language, bool) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return "", false
	}

	for _, lang := range Supported() {
		if strings.EqualFold(locale, string(lang)) {
			return lang, true
		}
	}

	primary, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	lang, ok := localePrefixes[primary]
	return lang, ok
}
