package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tweetboard/pkg/config"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ServerStartStop(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id_str":"1","text":"hi","created_at":"Wed Aug 27 13:08:45 +0000 2008","user":{"name":"` +
			r.URL.Query().Get("screen_name") + `"}}]`))
	}))
	defer upstream.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	opts := Opts{
		Listen: fmt.Sprintf("127.0.0.1:%d", port),
		DB:     "file:" + filepath.Join(t.TempDir(), "test.db"),
		API:    upstream.URL + "/1.1",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	serverErr := make(chan error, 1)
	go func() { serverErr <- run(ctx, opts) }()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	// initial load fills the board without a page view
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/api/v1/columns")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var snap struct {
			Columns []struct {
				State string `json:"state"`
			} `json:"columns"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return false
		}
		for _, c := range snap.Columns {
			if c.State != "ready" {
				return false
			}
		}
		return len(snap.Columns) == 3
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(baseURL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "@makeschool")

	// status reports the settings database
	resp, err = http.Get(baseURL + "/api/v1/status")
	require.NoError(t, err)
	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", status["database"])

	cancel()
	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(cfg, Opts{})
	assert.Equal(t, config.Default(), cfg, "empty options change nothing")

	applyOverrides(cfg, Opts{Listen: ":9999", DB: "file:x.db", API: "http://proxy:1/1.1"})
	assert.Equal(t, ":9999", cfg.Server.Listen)
	assert.Equal(t, "file:x.db", cfg.Database.DSN)
	assert.Equal(t, "http://proxy:1/1.1", cfg.Upstream.BaseURL)
}

func TestSetupLog(t *testing.T) {
	assert.NotPanics(t, func() { setupLog(false, true) })
	assert.NotPanics(t, func() { setupLog(true, false, "secret") })
}
