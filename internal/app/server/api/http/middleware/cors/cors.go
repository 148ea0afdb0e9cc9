package cors

import "net/http"

const (
	AllowOrigin      = "*"
	AllowMethods     = "GET, POST, PUT, DELETE, OPTIONS"
	AllowHeaders     = "Content-Type, Authorization, X-App-ID"
	AllowCredentials = "true"
)

// Middleware sets the same permissive CORS headers on every response and
// answers preflight requests with 204.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", AllowOrigin)
		h.Set("Access-Control-Allow-Methods", AllowMethods)
		h.Set("Access-Control-Allow-Headers", AllowHeaders)
		h.Set("Access-Control-Allow-Credentials", AllowCredentials)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
