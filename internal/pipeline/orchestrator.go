package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arnaudp/vintedflip/internal/analysis"
	"github.com/arnaudp/vintedflip/internal/model"
	"github.com/arnaudp/vintedflip/internal/vinted"
)

const (
	defaultWorkers     = 3
	defaultSettleDelay = 500 * time.Millisecond
	defaultRPS         = 2.0
	defaultMaxPrice    = 50.0
	defaultPerPage     = 50
)

// LuxuryKeywords returns the built-in high-end brand sweep list.
func LuxuryKeywords() []string {
	return []string{
		"gucci", "louis vuitton", "prada", "chanel", "dior",
		"fendi", "balenciaga", "yves saint laurent", "valentino",
		"givenchy", "burberry", "coach", "michael kors", "versace",
		"dolce gabbana",
	}
}

// MispricedKeywords returns terms that tend to surface underpriced
// listings regardless of brand.
func MispricedKeywords() []string {
	return []string{
		"original", "authentic", "rare", "limited edition",
		"vintage", "deadstock", "new with tags",
	}
}

// Searcher is the catalog surface the orchestrator fans out over.
type Searcher interface {
	Search(ctx context.Context, keyword string, maxPrice float64, perPage int) vinted.Result
}

// Options tunes a sweep. Zero values take the defaults above; a zero
// Profile takes the aggressive preset.
type Options struct {
	Workers           int
	SettleDelay       time.Duration // pause after each request before the worker takes the next keyword
	RequestsPerSecond float64
	MaxPrice          float64
	PerPage           int
	Profile           analysis.Profile
}

// Sweep is the combined outcome of one multi-keyword pass. Items holds
// the normalized listings that cleared the opportunity thresholds, from
// the keywords that succeeded; Outcomes records one result per keyword
// so a caller can see which failed and why. Duplicate ids across
// keywords are kept; suppression happens at delivery, not here.
type Sweep struct {
	Items          []model.EnrichedItem
	ItemsByKeyword map[string][]model.EnrichedItem
	Outcomes       []vinted.Result
}

// Failed returns the outcomes for keywords that did not complete.
func (s Sweep) Failed() []vinted.Result {
	var failed []vinted.Result
	for _, out := range s.Outcomes {
		if !out.OK() {
			failed = append(failed, out)
		}
	}
	return failed
}

// Orchestrator fans keyword searches out over a bounded worker pool,
// pacing requests through a shared rate limiter so a wide sweep stays
// polite to the upstream.
type Orchestrator struct {
	client     Searcher
	normalizer *Normalizer
	limiter    *rate.Limiter
	opts       Options
}

func NewOrchestrator(client Searcher, normalizer *Normalizer, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.MaxPrice <= 0 {
		opts.MaxPrice = defaultMaxPrice
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.Profile == (analysis.Profile{}) {
		opts.Profile = analysis.AggressiveProfile()
	}

	return &Orchestrator{
		client:     client,
		normalizer: normalizer,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		opts:       opts,
	}
}

// SearchMany sweeps every keyword concurrently and returns the combined
// result, keeping only the items that clear the opportunity profile. A
// keyword that fails contributes an empty listing set and its outcome;
// it never aborts the other keywords.
func (o *Orchestrator) SearchMany(ctx context.Context, keywords []string) Sweep {
	jobs := make(chan string, len(keywords))
	results := make(chan vinted.Result, len(keywords))

	workers := o.opts.Workers
	if workers > len(keywords) {
		workers = len(keywords)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for keyword := range jobs {
				if err := o.limiter.Wait(ctx); err != nil {
					results <- vinted.Result{Keyword: keyword, Status: vinted.StatusTransport, Err: err}
					continue
				}
				results <- o.client.Search(ctx, keyword, o.opts.MaxPrice, o.opts.PerPage)
				o.settle(ctx)
			}
		}()
	}

	for _, keyword := range keywords {
		jobs <- keyword
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	sweep := Sweep{ItemsByKeyword: make(map[string][]model.EnrichedItem)}
	for res := range results {
		sweep.Outcomes = append(sweep.Outcomes, res)
		if !res.OK() {
			continue
		}
		var kept []model.EnrichedItem
		for _, item := range o.normalizer.NormalizeAll(res.Listings) {
			if o.opts.Profile.IsOpportunity(item) {
				kept = append(kept, item)
			}
		}
		sweep.Items = append(sweep.Items, kept...)
		if len(kept) > 0 {
			sweep.ItemsByKeyword[res.Keyword] = kept
		}
	}

	if failed := sweep.Failed(); len(failed) > 0 {
		log.Printf("pipeline: %d/%d keywords failed this sweep", len(failed), len(keywords))
	}
	return sweep
}

// SearchLuxury sweeps the built-in luxury brand list.
func (o *Orchestrator) SearchLuxury(ctx context.Context) Sweep {
	return o.SearchMany(ctx, LuxuryKeywords())
}

// SearchMispriced sweeps the built-in mispriced-listing terms.
func (o *Orchestrator) SearchMispriced(ctx context.Context) Sweep {
	return o.SearchMany(ctx, MispricedKeywords())
}

// settle pauses between requests without outliving the context.
func (o *Orchestrator) settle(ctx context.Context) {
	timer := time.NewTimer(o.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
