package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	demomw "github.com/tendant/chi-demo/middleware"
)

// NewTokenAuth returns the HS256 signer and verifier for editorial tokens.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// JWTAuth guards a route group with bearer tokens signed by secret.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	ja := NewTokenAuth(secret)
	verify := jwtauth.Verifier(ja)
	return func(next http.Handler) http.Handler {
		return verify(jwtauth.Authenticator(next))
	}
}

// APIKeyAuth guards a route group with API keys. Keys are given as SHA-256
// hex digests.
func APIKeyAuth(digests []string) (func(http.Handler) http.Handler, error) {
	if len(digests) == 0 {
		return nil, fmt.Errorf("at least one api key is required")
	}
	cfg := demomw.ApiKeyConfig{APIKeys: make(map[string]string, len(digests))}
	for i, d := range digests {
		cfg.APIKeys[fmt.Sprintf("key%d", i+1)] = d
	}
	return demomw.ApiKeyMiddleware(cfg)
}
