package authapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UserID accepts either a JSON string or a JSON number
type UserID string

// UnmarshalJSON decodes string or numeric ids
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// User is the profile returned by the auth API
type User struct {
	ID                 UserID `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	SoftwareBackground string `json:"software_background,omitempty"`
	HardwareBackground string `json:"hardware_background,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// Profile carries the optional background fields collected at signup
type Profile struct {
	SoftwareBackground string `json:"software_background"`
	HardwareBackground string `json:"hardware_background"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Profile
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both signup and signin
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user"`
}

// APIError is a non-2xx response from the auth API
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// Message returns the server-supplied detail when there is one
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error()
}

// parseErrorDetail extracts a readable message from an error body.
// The detail field wins over the error field; each may be a string, a list of
// {"msg": "..."} items, or an object carrying a message.
func parseErrorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if msg := messageFrom(payload.Detail); msg != "" {
		return msg
	}
	return messageFrom(payload.Error)
}

func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Msg
	}

	return ""
}
