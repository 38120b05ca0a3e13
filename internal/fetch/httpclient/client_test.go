package httpclient

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(Options{
		RequestTimeout: 5 * time.Second,
		ConnectTimeout: time.Second,
		MaxPerHost:     4,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestManager_SingleInstance(t *testing.T) {
	m := testManager()

	first := m.Client()
	second := m.Client()
	assert.Same(t, first, second, "repeated calls must return the one shared client")
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	m := testManager()
	_ = m.Client()

	m.Close()
	m.Close() // second close must be a no-op

	// A closed manager rebuilds on next use.
	rebuilt := m.Client()
	require.NotNil(t, rebuilt)
}

func TestManager_DefaultHeaders(t *testing.T) {
	var gotUA, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := testManager()
	defer m.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := m.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, defaultUserAgent, gotUA)
	assert.Equal(t, "application/json", gotCT)
}

func TestManager_HeaderNotOverwritten(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	m := testManager()
	defer m.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom-agent")
	resp, err := m.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "custom-agent", gotUA)
}
