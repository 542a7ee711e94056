package i18n

import (
	"net/http"
)

type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

// GetLanguageFromRequest extracts language from request (query param or cookie)
func GetLanguageFromRequest(r *http.Request) Language {
	// Check query parameter first
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if lang == "pt" {
			return Portuguese
		}
		if lang == "en" {
			return English
		}
	}

	// Check cookie
	if cookie, err := r.Cookie("lang"); err == nil {
		if cookie.Value == "pt" {
			return Portuguese
		}
		if cookie.Value == "en" {
			return English
		}
	}

	// Default to Portuguese
	return Portuguese
}
