package middleware

import (
	"fmt"
	"net/http"

	"github.com/mssola/useragent"

	"idp-gateway/pkg/requestcontext"
)

// Device parses the User-Agent into a compact "browser version / os" label and
// stores it in the context. Security audit events attach it so operators can
// spot credential replay from an unfamiliar device class.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ua := useragent.New(raw)
		name, version := ua.Browser()
		label := fmt.Sprintf("%s %s / %s", name, version, ua.OS())
		ctx := requestcontext.WithDevice(r.Context(), label)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
