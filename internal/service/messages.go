package service

import (
	"strings"

	"assistant-client/internal/apiclient"
)

// UserMessage elige el texto visible para un error: el detalle del backend,
// luego el texto del error y por ultimo el fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if detail := strings.TrimSpace(apiclient.Detail(err)); detail != "" {
		return detail
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
