package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxySupplier_Empty(t *testing.T) {
	supplier, err := NewProxySupplier(context.Background(), nil, "http://example.invalid/")
	require.NoError(t, err)

	assert.Empty(t, supplier.Get())
	assert.Empty(t, supplier.Get())
}

func TestNewProxySupplier_KeepsWorkingProxies(t *testing.T) {
	// A plain HTTP server answers proxied GETs with an absolute request URI.
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer working.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	proxies := []string{"http://127.0.0.1:1", working.URL, failing.URL}

	supplier, err := NewProxySupplier(context.Background(), proxies, "http://epsol.test/katalog/")
	require.NoError(t, err)

	assert.Equal(t, working.URL, supplier.Get())
	assert.Equal(t, working.URL, supplier.Get())
}

func TestProxySupplier_RoundRobin(t *testing.T) {
	supplier := &proxySupplier{proxies: []string{"a", "b", "c"}}

	var got []string
	for range 5 {
		got = append(got, supplier.Get())
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, got)
}
