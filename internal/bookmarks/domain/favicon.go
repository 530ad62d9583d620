package domain

import (
	"fmt"
	"net/url"
)

const faviconProviderTemplate = "https://www.google.com/s2/favicons?domain=%s&sz=64"

// FaviconURL derives a display icon URL from a bookmark URL. The favicon is
// cosmetic: any unparseable input yields an empty string, never an error, so
// a bad URL can not block a create, update or import.
func FaviconURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if host == "" {
		return ""
	}
	return fmt.Sprintf(faviconProviderTemplate, host)
}
