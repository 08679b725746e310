package langcheck_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope/internal/infra/integration/langcheck"
)

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "anna", req["username"])
		assert.Equal(t, "Grafik aus Wien", req["bio"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"german": true, "reason": "bio is German"}`))
	}))
	defer srv.Close()

	c := langcheck.NewClient("key123", srv.URL)
	german, reason, err := c.Classify(context.Background(), "anna", "Grafik aus Wien", "Anna")

	require.NoError(t, err)
	assert.True(t, german)
	assert.Equal(t, "bio is German", reason)
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := langcheck.NewClient("key123", srv.URL)
	_, _, err := c.Classify(context.Background(), "anna", "", "")

	assert.Error(t, err)
}
