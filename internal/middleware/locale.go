package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey is the context key under which the resolved locale is stored.
var LocaleKey = localeContextKey{}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,    // default
	language.Indonesian,
})

// Locale resolves the request locale from X-Locale or Accept-Language
// and stores it ("en" or "id") in the request context for the handlers'
// message catalog.
func Locale(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the locale stored by Locale, or "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}

func detectLocale(r *http.Request, fallback string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return matchLocale([]language.Tag{tag})
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return matchLocale(tags)
		}
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "en"
}

func matchLocale(tags []language.Tag) string {
	_, index, _ := localeMatcher.Match(tags...)
	if index == 1 {
		return "id"
	}
	return "en"
}

func normalizeLocale(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "id") {
		return "id"
	}
	return "en"
}
