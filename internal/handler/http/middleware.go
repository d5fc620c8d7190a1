package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// SessionCookie names the visitor session cookie.
const SessionCookie = "watchify_session"

// SessionID resolves the visitor's session identifier from the session
// cookie or the X-Session-ID header, minting a new one when neither is
// present, and stores it on the request context.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			id = c.Value
		}
		if id == "" {
			id = r.Header.Get("X-Session-ID")
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}
