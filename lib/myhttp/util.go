package myhttp

import (
	"net/http"
)

// IsSecure tells whether the visitor reached us over https, also when TLS is
// terminated by a load balancer in front of us.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
