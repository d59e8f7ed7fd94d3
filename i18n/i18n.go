// Package i18n holds the English/Arabic message catalogue used by templates,
// flash notifications and validation messages.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	LangEN      = "en"
	LangAR      = "ar"
	DefaultLang = LangEN
)

var (
	supported = []string{LangEN, LangAR}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Arabic})
)

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Normalize(lang))
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}

// Supported reports whether lang has a catalogue.
func Supported(lang string) bool {
	for _, l := range supported {
		if l == lang {
			return true
		}
	}
	return false
}

// Normalize lowercases lang and maps unsupported values to DefaultLang.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if Supported(lang) {
		return lang
	}
	return DefaultLang
}

// DetectLanguage picks the best supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return supported[idx]
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if lang == LangAR {
		return "rtl"
	}
	return "ltr"
}

// T translates code. Unknown languages fall back to English, unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}
