// Package search holds the query state behind the artist search box:
// current text plus the latest result set, with at-most-once application of
// results from only the most recently issued request.
package search

import (
	"context"
	"sync"
	"unicode/utf8"

	"artfolio/internal/watch"
	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

// minQueryLen is the threshold below which no request is issued and the
// results are cleared synchronously.
const minQueryLen = 3

// Searcher is the slice of the catalog client the controller needs.
type Searcher interface {
	SearchArtists(ctx context.Context, keyword string) []models.Artist
}

// Controller owns the search query and results as observable values. A new
// query cancels the in-flight search; a canceled search never applies its
// results.
type Controller struct {
	searcher Searcher
	log      *logging.Logger

	query   *watch.Value[string]
	results *watch.Value[[]models.Artist]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a controller around the given searcher.
func New(searcher Searcher, log *logging.Logger) *Controller {
	return &Controller{
		searcher: searcher,
		log:      log,
		query:    watch.NewValue(""),
		results:  watch.NewValue[[]models.Artist](nil),
	}
}

// Query exposes the current query text.
func (c *Controller) Query() *watch.Value[string] {
	return c.query
}

// Results exposes the latest result set.
func (c *Controller) Results() *watch.Value[[]models.Artist] {
	return c.results
}

// SetQuery stores the text and, for queries of three or more characters,
// supersedes any in-flight search with a fresh one. Shorter queries clear
// the results immediately without touching the network.
func (c *Controller) SetQuery(text string) {
	c.query.Set(text)

	if utf8.RuneCountInString(text) < minQueryLen {
		c.supersede(nil)
		c.results.Set(nil)
		return
	}

	ctx := c.supersedeWithContext()
	c.wg.Add(1)
	go c.run(ctx, text)
}

// Clear resets query and results and cancels any in-flight search.
func (c *Controller) Clear() {
	c.supersede(nil)
	c.query.Set("")
	c.results.Set(nil)
}

// Close cancels outstanding work and waits for it to finish.
func (c *Controller) Close() {
	c.supersede(nil)
	c.wg.Wait()
}

func (c *Controller) run(ctx context.Context, text string) {
	defer c.wg.Done()

	artists := c.searcher.SearchArtists(ctx, text)

	// The cancellation check and the publish sit under the same mutex that
	// supersession takes, so a stale search can never overwrite a newer
	// result.
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		c.log.Debug("search superseded: " + text)
		return
	}
	c.results.Set(artists)
}

// supersede cancels the current search and installs next (which may be nil)
// as the active cancel function.
func (c *Controller) supersede(next context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = next
}

func (c *Controller) supersedeWithContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c.supersede(cancel)
	return ctx
}
