package orchestrate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

// URLResult contains the result of summarizing a single article
type URLResult struct {
	URL      string
	Record   *models.StoryRecord
	Error    error
	Duration time.Duration
}

// Success reports whether the article produced a record
func (r URLResult) Success() bool { return r.Error == nil && r.Record != nil }

// RunAll summarizes every URL, running at most concurrency pipelines at once.
// Each URL is an independent request: one failure never affects another. Results keep input order.
func (p *Pipeline) RunAll(ctx context.Context, urls []string, concurrency int) []URLResult {
	if concurrency < 1 {
		concurrency = 1
	}
	startTime := time.Now()
	p.log.Infof("Summarizing %d articles with concurrency %d", len(urls), concurrency)

	results := make([]URLResult, len(urls))
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i, articleURL := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = URLResult{URL: articleURL, Error: err}
			continue
		}
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			defer sem.Release(1)

			itemStart := time.Now()
			record, err := p.Run(ctx, u)
			results[idx] = URLResult{URL: u, Record: record, Error: err, Duration: time.Since(itemStart)}
		}(i, articleURL)
	}

	wg.Wait()

	p.logSummary(results, time.Since(startTime))
	return results
}

// logSummary logs a summary of all batch results
func (p *Pipeline) logSummary(results []URLResult, totalDuration time.Duration) {
	p.log.Info("============================================")
	p.log.Infof("Batch completed in %v", totalDuration)

	successCount := 0
	for _, r := range results {
		status := "SUCCESS"
		if r.Success() {
			successCount++
		} else {
			status = "FAILED"
		}
		p.log.Infof("  %s: %s in %v", r.URL, status, r.Duration)
		if r.Error != nil {
			p.log.Infof("    Error [%s]: %v", utils.CategorizeError(r.Error), r.Error)
		}
	}

	p.log.Info("--------------------------------------------")
	p.log.Infof("Total: %d articles (%d success, %d failed)", len(results), successCount, len(results)-successCount)
	p.log.Info("============================================")
}
