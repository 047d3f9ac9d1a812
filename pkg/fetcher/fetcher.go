// Package fetcher issues column fetches, classifies their results and hands them to a renderer.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tweetboard/pkg/domain"
	"github.com/umputun/tweetboard/pkg/timeline"
)

//go:generate moq -out mocks/transport.go -pkg mocks -skip-ensure -fmt goimports . Transport
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer

// Transport performs a single GET, errors mean no response was received
type Transport interface {
	Get(ctx context.Context, url string) (timeline.Response, error)
}

// Query provides request parameters shared by all columns
type Query interface {
	Volume(ctx context.Context) int
	DateRange(ctx context.Context) (start, end string)
}

// URLBuilder makes the request URL for a handle
type URLBuilder interface {
	Build(handle string, volume int, startDate, endDate string) string
}

// Renderer receives outcomes of current fetches
type Renderer interface {
	Render(col domain.Column, outcome domain.Outcome)
}

// Orchestrator runs column fetches. Each call gets a per-column generation number
// and only the latest generation of a column reaches the renderer.
type Orchestrator struct {
	transport Transport
	urls      URLBuilder
	query     Query
	renderer  Renderer
	slots     [domain.NumColumns]slot
}

type slot struct {
	mu  sync.Mutex
	gen uint64
}

// New makes an Orchestrator, nil renderer means outcomes are only delivered to callers
func New(transport Transport, urls URLBuilder, query Query, renderer Renderer) *Orchestrator {
	return &Orchestrator{transport: transport, urls: urls, query: query, renderer: renderer}
}

// FetchColumn issues one request for handle in col and returns a channel receiving its outcome.
// The request is not bound to ctx cancellation, superseded requests run to completion
// and their results are dropped instead of rendered.
func (o *Orchestrator) FetchColumn(ctx context.Context, col domain.Column, handle string) <-chan domain.Outcome {
	res := make(chan domain.Outcome, 1)
	if !col.Valid() {
		lgr.Printf("[WARN] skip fetch for %s: %v", col, domain.ErrInvalidColumn)
		res <- domain.NetworkError()
		close(res)
		return res
	}

	start, end := o.query.DateRange(ctx)
	reqURL := o.urls.Build(handle, o.query.Volume(ctx), start, end)
	gen := o.nextGeneration(col)
	lgr.Printf("[DEBUG] fetch %s column #%d for %q, %s", col, gen, handle, reqURL)

	reqCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(res)
		st := time.Now()
		outcome := o.fetch(reqCtx, reqURL)
		fetchDuration.Observe(time.Since(st).Seconds())
		fetchCounter.WithLabelValues(string(outcome.Kind)).Inc()
		o.deliver(col, gen, outcome)
		res <- outcome
	}()
	return res
}

// FetchAll fetches all columns concurrently and waits for every outcome.
// The error is set only if ctx is done before all outcomes arrive.
func (o *Orchestrator) FetchAll(ctx context.Context, handles [domain.NumColumns]string) ([domain.NumColumns]domain.Outcome, error) {
	var res [domain.NumColumns]domain.Outcome
	var g errgroup.Group
	for _, col := range domain.Columns {
		ch := o.FetchColumn(ctx, col, handles[col])
		g.Go(func() error {
			outcome, err := Await(ctx, ch)
			if err != nil {
				return fmt.Errorf("wait for %s column: %w", col, err)
			}
			res[col] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

// Await waits for the outcome from ch or for ctx to be done
func Await(ctx context.Context, ch <-chan domain.Outcome) (domain.Outcome, error) {
	select {
	case outcome, ok := <-ch:
		if !ok {
			return domain.NetworkError(), nil
		}
		return outcome, nil
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}
}

// Generation returns the number of fetches issued for col so far
func (o *Orchestrator) Generation(col domain.Column) uint64 {
	if !col.Valid() {
		return 0
	}
	s := &o.slots[col]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (o *Orchestrator) nextGeneration(col domain.Column) uint64 {
	s := &o.slots[col]
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// deliver renders outcome if gen is still the latest fetch of col.
// The slot stays locked while rendering, a newer result can't be overwritten by an older one.
func (o *Orchestrator) deliver(col domain.Column, gen uint64, outcome domain.Outcome) {
	s := &o.slots[col]
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		staleCounter.Inc()
		lgr.Printf("[DEBUG] drop stale %s column result #%d, current #%d", col, gen, s.gen)
		return
	}
	if o.renderer != nil {
		o.renderer.Render(col, outcome)
	}
}

func (o *Orchestrator) fetch(ctx context.Context, reqURL string) domain.Outcome {
	resp, err := o.transport.Get(ctx, reqURL)
	if err != nil {
		lgr.Printf("[WARN] can't fetch %s: %v", reqURL, err)
		return domain.NetworkError()
	}
	return Classify(resp)
}

// Classify maps a response to an outcome: 200 with posts is Populated, 200 without posts is Empty,
// 404 is NotFound, anything else including an undecodable 200 body is NetworkError.
func Classify(resp timeline.Response) domain.Outcome {
	switch resp.StatusCode {
	case http.StatusOK:
		posts, err := timeline.DecodePosts(resp.Body)
		if err != nil {
			lgr.Printf("[WARN] can't decode posts: %v", err)
			return domain.NetworkError()
		}
		return domain.Populated(posts)
	case http.StatusNotFound:
		return domain.NotFound()
	default:
		lgr.Printf("[WARN] unexpected response status %d", resp.StatusCode)
		return domain.NetworkError()
	}
}
