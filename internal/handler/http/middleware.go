package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// sessionHeader carries the client's session identifier. A missing header
// starts a new session; the assigned ID is echoed back so the client can
// carry it forward.
const sessionHeader = "X-Session-ID"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionID is middleware that reads the X-Session-ID header, minting a new
// session ID when the header is absent, and stores it in the request
// context. The effective ID is always echoed in the response header.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(sessionHeader)
		if sid == "" {
			sid = uuid.New().String()
		}
		w.Header().Set(sessionHeader, sid)
		ctx := context.WithValue(r.Context(), sessionIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionIDFromContext extracts the session ID from the request context.
func sessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey).(string)
	return sid, ok && sid != ""
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
