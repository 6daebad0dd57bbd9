package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware tags each request with a ULID, keeping a caller-supplied ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// securityHeadersMiddleware sets headers that are safe for a static site
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// staticHeadersMiddleware sets configured headers verbatim on every response
func staticHeadersMiddleware(headers map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range headers {
			c.Header(name, value)
		}
		c.Next()
	}
}

// corsFromHeaders turns Access-Control-* response headers from the site config
// into a CORS middleware config. Remaining headers are returned untouched.
// CORS stays disabled when no Access-Control-Allow-Origin is configured.
func corsFromHeaders(headers map[string]string) (cors.Config, map[string]string, bool) {
	cfg := cors.Config{}
	rest := make(map[string]string)
	enabled := false

	for name, value := range headers {
		switch strings.ToLower(name) {
		case "access-control-allow-origin":
			enabled = true
			if strings.TrimSpace(value) == "*" {
				cfg.AllowAllOrigins = true
			} else {
				cfg.AllowOrigins = splitList(value)
			}
		case "access-control-allow-methods":
			cfg.AllowMethods = splitList(value)
		case "access-control-allow-headers":
			cfg.AllowHeaders = splitList(value)
		case "access-control-expose-headers":
			cfg.ExposeHeaders = splitList(value)
		case "access-control-allow-credentials":
			cfg.AllowCredentials = strings.EqualFold(strings.TrimSpace(value), "true")
		case "access-control-max-age":
			if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				cfg.MaxAge = time.Duration(secs) * time.Second
			}
		default:
			rest[name] = value
		}
	}

	if enabled && len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	}

	return cfg, rest, enabled
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
