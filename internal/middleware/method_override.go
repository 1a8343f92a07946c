package middleware

import (
	"net/http"
	"strings"
)

const methodOverrideField = "_method"

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets HTML forms, which can only POST, reach PUT, PATCH and
// DELETE routes. The method comes from the X-HTTP-Method-Override header, the
// _method query parameter or the _method form field, in that order.
//
// It wraps the whole router because gin picks the route before any gin
// middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if m := overrideMethod(r); overridableMethods[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	if m := r.Header.Get("X-HTTP-Method-Override"); m != "" {
		return strings.ToUpper(m)
	}
	if m := r.URL.Query().Get(methodOverrideField); m != "" {
		return strings.ToUpper(m)
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		// FormValue parses the body once; gin reuses the parsed form later.
		return strings.ToUpper(r.FormValue(methodOverrideField))
	}
	return ""
}
