package server

import (
	"errors"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tweetboard/pkg/domain"
	"github.com/umputun/tweetboard/pkg/feed"
	"github.com/umputun/tweetboard/pkg/fetcher"
)

// rssHandler fetches a column and serves its posts as RSS.
// Unknown handles give 404, failed fetches 502, empty results a feed without items.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	col, err := domain.ParseColumn(r.PathValue("idx"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	handle := s.settings.Handle(ctx, col)
	outcome, err := fetcher.Await(ctx, s.fetcher.FetchColumn(ctx, col, handle))
	if err != nil {
		lgr.Printf("[WARN] rss for column %s canceled: %v", col, err)
		return
	}

	switch outcome.Kind {
	case domain.OutcomeNotFound:
		renderError(w, r, errors.New(outcome.Message), http.StatusNotFound)
		return
	case domain.OutcomeNetworkError:
		renderError(w, r, errors.New(outcome.Message), http.StatusBadGateway)
		return
	}

	generator := feed.NewGenerator(s.config.GetBaseURL())
	rss, err := generator.GenerateRSS(col, handle, outcome.Posts)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
