package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "PLN", r.URL.Query().Get("base"))
		assert.Equal(t, "EUR", r.URL.Query().Get("symbols"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"PLN","rates":{"EUR":0.2315}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	rate := client.Rate(context.Background())

	assert.Equal(t, 0.2315, rate)
}

func TestRate_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	rate := client.Rate(context.Background())

	assert.Equal(t, DefaultFallbackRate, rate)
}

func TestRate_FallbackOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	rate := client.Rate(context.Background())

	assert.Equal(t, DefaultFallbackRate, rate)
}

func TestRate_FallbackOnMissingSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"USD":0.25}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	rate := client.Rate(context.Background())

	assert.Equal(t, DefaultFallbackRate, rate)
}

func TestRate_FallbackOnUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, 0)
	rate := client.Rate(context.Background())

	assert.Equal(t, DefaultFallbackRate, rate)
}

func TestRate_ConfiguredFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0.21)
	rate := client.Rate(context.Background())

	assert.Equal(t, 0.21, rate)
}
