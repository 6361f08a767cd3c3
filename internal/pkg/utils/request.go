package utils

import (
	"appointment-composite-service/internal/pkg/constvars"
	"net/http"
	"strings"
)

// ExtractBearerToken returns the credential from the Authorization header, or "" when
// the header is absent or uses a different scheme.
func ExtractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constvars.HeaderAuthorization))
	if len(header) < len(constvars.AuthorizationBearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(constvars.AuthorizationBearerPrefix)], constvars.AuthorizationBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(constvars.AuthorizationBearerPrefix):])
}
