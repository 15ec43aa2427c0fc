package img2chars

import (
	"context"
	"errors"
	"sync"
)

// Source is one image in a batch. Image supplies pixels directly; Open is
// a lazy alternative so that decode failures are attributed to the image
// they belong to instead of failing the batch up front. When both are set,
// Image wins.
type Source struct {
	ID    string
	Image PixelSource
	Open  func() (PixelSource, error)
}

func (s Source) pixels() (PixelSource, error) {
	if s.Image != nil {
		return s.Image, nil
	}
	if s.Open != nil {
		return s.Open()
	}
	return nil, errors.New("no pixel source")
}

// Summary tallies a batch conversion.
type Summary struct {
	Converted int
	Failed    int
	Skipped   int
	Failures  []*LoadError
}

type outcome struct {
	idx     int
	res     *Result
	loadErr *LoadError
	skipped bool
}

// ConvertAll converts every source with the shared read-only config,
// fanning out across the renderer's workers. Each image is independent:
// a failed load is recorded in the summary and never aborts its siblings.
// Cancelling ctx skips the images not yet started; there is no mid-image
// cancellation.
//
// Results come back in source order, with nil entries for failed or
// skipped images. If a result handler is set it is additionally invoked in
// completion order, decoupled from the workers so a slow handler cannot
// stall pixel processing.
func (r *Renderer) ConvertAll(ctx context.Context, sources []Source, cfg Config) ([]*Result, Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, err
	}

	jobs := make(chan int)
	outcomes := make(chan outcome, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					outcomes <- outcome{idx: idx, skipped: true}
					continue
				}
				outcomes <- r.convertOne(idx, sources[idx], cfg)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range sources {
			select {
			case jobs <- i:
			case <-ctx.Done():
				// Mark everything not yet handed out as skipped.
				for j := i; j < len(sources); j++ {
					outcomes <- outcome{idx: j, skipped: true}
				}
				return
			}
		}
	}()

	results := make([]*Result, len(sources))
	var summary Summary
	for range sources {
		o := <-outcomes
		switch {
		case o.skipped:
			summary.Skipped++
		case o.loadErr != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, o.loadErr)
		default:
			summary.Converted++
			results[o.idx] = o.res
			if r.handler != nil {
				r.handler(o.res)
			}
		}
	}
	wg.Wait()

	return results, summary, nil
}

func (r *Renderer) convertOne(idx int, src Source, cfg Config) outcome {
	px, err := src.pixels()
	if err != nil {
		loadErr := &LoadError{Source: src.ID, Err: err}
		r.logf("%v; skipping", loadErr)
		return outcome{idx: idx, loadErr: loadErr}
	}

	res, err := r.render(src.ID, px, cfg)
	if err != nil {
		// Config was validated up front; a render error here still must
		// not abort siblings.
		loadErr := &LoadError{Source: src.ID, Err: err}
		r.logf("%v; skipping", loadErr)
		return outcome{idx: idx, loadErr: loadErr}
	}

	r.logf("finished processing %s (%d lines)", src.ID, len(res.TextLines))
	return outcome{idx: idx, res: res}
}
