package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignin_SendsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/signin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req SigninRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, "secret", req.Password)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","user":{"id":7,"email":"ada@example.com","name":"Ada"}}`))
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.Signin(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, UserID("7"), resp.User.ID)
	assert.Equal(t, "Ada", resp.User.Name)

	// Signin does not attach the token by itself
	assert.Empty(t, client.Token())
}

func TestSignup_Body(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"email":               "grace@example.com",
			"password":            "pw",
			"name":                "Grace",
			"software_background": "advanced",
			"hardware_background": "beginner",
		}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"access_token":"tok-2","user":{"id":"u-2","email":"grace@example.com","name":"Grace","software_background":"advanced"}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL+"/").Signup(context.Background(), SignupRequest{
		Email:    "grace@example.com",
		Password: "pw",
		Name:     "Grace",
		Profile: Profile{
			SoftwareBackground: "advanced",
			HardwareBackground: "beginner",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-2", resp.AccessToken)
	assert.Equal(t, UserID("u-2"), resp.User.ID)
	assert.Equal(t, "advanced", resp.User.SoftwareBackground)
}

func TestMe_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer tok-3" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		w.Write([]byte(`{"id":"u-3","email":"linus@example.com","name":"Linus"}`))
	}))
	defer server.Close()

	client := New(server.URL)

	_, err := client.Me(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Could not validate credentials", apiErr.Message())

	client.SetToken("tok-3")
	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "linus@example.com", user.Email)

	client.ClearToken()
	assert.Empty(t, client.Token())
	_, err = client.Me(context.Background())
	require.Error(t, err)
}

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"validation list", `{"detail":[{"msg":"value is not a valid email address"},{"msg":"field required"}]}`, "value is not a valid email address; field required"},
		{"error field", `{"error":"Invalid email or password"}`, "Invalid email or password"},
		{"detail beside error object", `{"detail":"Email already registered","error":{"code":"dup"}}`, "Email already registered"},
		{"detail object", `{"detail":{"message":"Email already registered","code":"dup"}}`, "Email already registered"},
		{"error object", `{"error":{"message":"Too many attempts"}}`, "Too many attempts"},
		{"non-string detail falls through to error", `{"detail":42,"error":"Invalid token"}`, "Invalid token"},
		{"no structured field", `{"message":"nope"}`, "request failed with status code 400"},
		{"not json", `<html>Bad Gateway</html>`, "request failed with status code 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &APIError{StatusCode: 400, Detail: parseErrorDetail([]byte(tt.body)), Body: tt.body}
			assert.Equal(t, tt.want, apiErr.Message())
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL).Me(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).Signin(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestUserID_Unmarshal(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42}`), &u))
	assert.Equal(t, UserID("42"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc"}`), &u))
	assert.Equal(t, UserID("abc"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &u))
	assert.Equal(t, UserID(""), u.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":{}}`), &u))
}
