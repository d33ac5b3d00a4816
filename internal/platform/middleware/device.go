package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"byggekrav/pkg/requestcontext"
)

// Device parses the User-Agent header into a human-readable description and
// stores it with the raw header and client IP for audit enrichment.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithClientIP(ctx, clientIP(r))

		if raw := r.UserAgent(); raw != "" {
			ctx = requestcontext.WithUserAgent(ctx, raw)
			ctx = requestcontext.WithDevice(ctx, describeDevice(raw))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func describeDevice(raw string) string {
	ua := useragent.New(raw)
	if ua.Bot() {
		return "bot"
	}
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	desc := name
	if version != "" {
		desc += " " + version
	}
	if os := ua.OS(); os != "" {
		desc += " on " + os
	}
	return desc
}

func clientIP(r *http.Request) string {
	// Trust the first forwarded hop when present; the edge proxy sets it.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}
