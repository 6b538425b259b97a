package domain

import (
	"encoding/json"
	"fmt"
)

// Session es el registro de login persistido localmente. Se reemplaza completo,
// nunca se modifica en sitio. Los campos que el backend agregue a la respuesta
// de login se conservan en Extra.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Extra        map[string]json.RawMessage
}

const (
	sessionAccessToken  = "access_token"
	sessionRefreshToken = "refresh_token"
	sessionTokenType    = "token_type"
)

func (s *Session) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var out Session
	for key, raw := range fields {
		var dst *string
		switch key {
		case sessionAccessToken:
			dst = &out.AccessToken
		case sessionRefreshToken:
			dst = &out.RefreshToken
		case sessionTokenType:
			dst = &out.TokenType
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = raw
			continue
		}
		if string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("session %s: %w", key, err)
		}
	}
	*s = out
	return nil
}

func (s Session) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.Extra)+3)
	for key, raw := range s.Extra {
		fields[key] = raw
	}
	fields[sessionAccessToken] = s.AccessToken
	if s.RefreshToken != "" {
		fields[sessionRefreshToken] = s.RefreshToken
	}
	if s.TokenType != "" {
		fields[sessionTokenType] = s.TokenType
	}
	return json.Marshal(fields)
}
