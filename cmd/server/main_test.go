package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-places/pkg/simpleplaces/config"
)

func TestEditorialAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("jwt", func(t *testing.T) {
		mw, err := editorialAuth(&config.ServerConfig{JWTSecret: "s", Environment: "production"})
		require.NoError(t, err)
		require.NotNil(t, mw)

		w := httptest.NewRecorder()
		mw(ok).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/posts/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("development without credentials", func(t *testing.T) {
		mw, err := editorialAuth(&config.ServerConfig{Environment: "development"})
		require.NoError(t, err)
		assert.Nil(t, mw)
	})

	t.Run("production without credentials", func(t *testing.T) {
		_, err := editorialAuth(&config.ServerConfig{Environment: "production"})
		assert.Error(t, err)
	})
}
