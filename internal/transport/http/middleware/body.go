package middleware

import (
	"mime"
	"net/http"
)

// MaxBodyBytes caps request bodies. Code requests carry one short field.
const MaxBodyBytes = 4 << 10

// LimitBody rejects bodies larger than n bytes once the handler reads past the limit.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireJSON rejects requests that carry a body without a JSON content type.
// An absent Content-Type is accepted.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			writeJSONError(w, http.StatusUnsupportedMediaType, "invalid-argument", "content type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}
