package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nutritrack/food-catalog/internal/transform"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
)

const (
	defaultPageSize    = 50
	defaultPageTimeout = 30 * time.Second
)

// Gate decides whether a raw product is worth keeping. A nil gate keeps everything.
type Gate func(transform.RawRecord) error

// FetchResult is what a fetch produced. Err combines every failed page.
type FetchResult struct {
	Raw          []transform.RawRecord
	Fetched      int
	GateRejected int
	Pages        int
	FailedPages  int
	Err          error
}

// Fetcher yields the raw products of one import source.
type Fetcher interface {
	Fetch(ctx context.Context, gate Gate, target int) (*FetchResult, error)
}

// Feed serves one page of a paginated product source. Pages start at 1.
type Feed interface {
	FetchPage(ctx context.Context, page, size int) ([]map[string]any, error)
}

// FeedFetcherParams configure a FeedFetcher.
type FeedFetcherParams struct {
	Feed        Feed
	PageSize    int
	PageTimeout time.Duration
	Concurrency int
}

// FeedFetcher pages through a Feed until enough products pass the gate, the
// feed runs dry or the attempt budget is spent.
type FeedFetcher struct {
	feed        Feed
	pageSize    int
	pageTimeout time.Duration
	concurrency int
}

// NewFeedFetcher builds a FeedFetcher, applying defaults to unset tuning.
func NewFeedFetcher(params FeedFetcherParams) (*FeedFetcher, error) {
	if params.Feed == nil {
		return nil, errors.New("feed required")
	}
	f := &FeedFetcher{
		feed:        params.Feed,
		pageSize:    params.PageSize,
		pageTimeout: params.PageTimeout,
		concurrency: params.Concurrency,
	}
	if f.pageSize <= 0 {
		f.pageSize = defaultPageSize
	}
	if f.pageTimeout <= 0 {
		f.pageTimeout = defaultPageTimeout
	}
	if f.concurrency <= 0 {
		f.concurrency = 1
	}
	return f, nil
}

// AttemptBudget is the number of page requests allowed for a target.
func AttemptBudget(target, pageSize int) int {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return (target/pageSize + 2) * 2
}

type pageResult struct {
	page     int
	products []map[string]any
	err      error
}

// Fetch downloads pages in batches of up to Concurrency requests. Batches are
// consumed in page order, so the kept products do not depend on which request
// finished first. A failed page is counted and skipped; an empty page ends the feed.
func (f *FeedFetcher) Fetch(ctx context.Context, gate Gate, target int) (*FetchResult, error) {
	res := &FetchResult{Raw: []transform.RawRecord{}}
	if target <= 0 {
		return res, nil
	}
	budget := AttemptBudget(target, f.pageSize)
	page, attempts := 1, 0

	for len(res.Raw) < target && attempts < budget {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch := min(f.concurrency, budget-attempts)
		results := f.fetchBatch(ctx, page, batch)
		attempts += batch
		page += batch

		if exhausted := res.consume(results, gate, target); exhausted {
			break
		}
	}
	return res, nil
}

func (f *FeedFetcher) fetchBatch(ctx context.Context, first, n int) []pageResult {
	results := make([]pageResult, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		page := first + i
		g.Go(func() error {
			pageCtx, cancel := context.WithTimeout(gctx, f.pageTimeout)
			defer cancel()
			products, err := f.feed.FetchPage(pageCtx, page, f.pageSize)
			results[i] = pageResult{page: page, products: products, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// consume folds a batch into the result in page order and reports whether
// the feed ran dry. A non-retryable page error ends the feed.
func (res *FetchResult) consume(results []pageResult, gate Gate, target int) bool {
	for _, r := range results {
		if len(res.Raw) >= target {
			return false
		}
		if r.err != nil {
			res.FailedPages++
			res.Err = multierr.Append(res.Err, fmt.Errorf("page %d: %w", r.page, r.err))
			if !pkgerrors.Retryable(r.err) {
				return true
			}
			continue
		}
		res.Pages++
		if len(r.products) == 0 {
			return true
		}
		for _, product := range r.products {
			if len(res.Raw) >= target {
				break
			}
			res.Fetched++
			raw := transform.RawRecord(product)
			if gate != nil {
				if err := gate(raw); err != nil {
					res.GateRejected++
					continue
				}
			}
			res.Raw = append(res.Raw, raw)
		}
	}
	return false
}
