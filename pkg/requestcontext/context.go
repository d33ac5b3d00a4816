// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without touching net/http.
package requestcontext

import (
	"context"
	"time"

	id "byggekrav/pkg/domain"
)

type (
	partyIDKey     struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	deviceKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// PartyID retrieves the authenticated party member's ID. Zero when unset.
func PartyID(ctx context.Context) id.PartyID {
	if partyID, ok := ctx.Value(partyIDKey{}).(id.PartyID); ok {
		return partyID
	}
	return id.PartyID{}
}

// WithPartyID injects the authenticated party ID.
func WithPartyID(ctx context.Context, partyID id.PartyID) context.Context {
	return context.WithValue(ctx, partyIDKey{}, partyID)
}

// RequestID retrieves the correlation ID. Empty when unset.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects the correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP retrieves the remote address recorded at the edge.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects the remote address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// UserAgent retrieves the raw User-Agent header.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithUserAgent injects the raw User-Agent header.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// Device retrieves the parsed, human-readable device description used for
// audit enrichment, e.g. "Chrome 126 on Windows".
func Device(ctx context.Context) string {
	if device, ok := ctx.Value(deviceKey{}).(string); ok {
		return device
	}
	return ""
}

// WithDevice injects the parsed device description.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}

// Now returns the request time when one was injected, else time.Now().
// Deadline evaluation reads the clock through here so tests can pin it.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
