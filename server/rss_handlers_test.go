package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tweetboard/pkg/domain"
)

func TestServer_rssHandler(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("populated column", func(t *testing.T) {
		resp, err := http.Get(env.ts.URL + "/rss/0")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/rss+xml; charset=utf-8", resp.Header.Get("Content-Type"))

		parsed, err := gofeed.NewParser().Parse(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "Tweetboard - @makeschool", parsed.Title)
		require.Len(t, parsed.Items, 1)
		assert.Equal(t, "https://twitter.com/makeschool/status/makeschool-1", parsed.Items[0].Link)
		assert.Equal(t, "hello from makeschool & co", parsed.Items[0].Title)
	})

	t.Run("not found", func(t *testing.T) {
		require.NoError(t, env.settings.Set(ctx, domain.SettingCenterCol, "ghost"))
		code, body := env.get(t, "/rss/1")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, domain.MessageNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		require.NoError(t, env.settings.Set(ctx, domain.SettingRightCol, "broken"))
		code, body := env.get(t, "/rss/2")
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Contains(t, body, domain.MessageNetworkError)
	})

	t.Run("bad index", func(t *testing.T) {
		code, _ := env.get(t, "/rss/9")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
