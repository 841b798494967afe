// Package generator turns materials into sitemap fragments and feeds.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
)

const DefaultWorkers = 4

type Options struct {
	// Workers is the number of goroutines building entries. Defaults to
	// DefaultWorkers.
	Workers int

	// SkipFailed drops materials whose providers or dates fail instead of
	// aborting the run.
	SkipFailed bool

	// Robots, when set, drops disallowed locations.
	Robots *RobotsFilter

	Logger logger.Logger
}

type Result struct {
	Fragments  []string
	URLCount   int
	Skipped    int
	Disallowed int
}

// MaterialError reports which material made a run fail.
type MaterialError struct {
	Index int
	ID    string
	Err   error
}

func (e *MaterialError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("material %s: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("material #%d: %v", e.Index, e.Err)
}

func (e *MaterialError) Unwrap() error { return e.Err }

type slot struct {
	fragments  []string
	disallowed int
	err        error
}

// Generate builds and serializes the entries of every material with a pool
// of workers. Fragments come back in the order of materials whatever order
// the workers finish in.
func Generate[M any](ctx context.Context, ex *extract.Extractor[M], materials []M, opts Options) (Result, error) {
	if ex == nil {
		return Result{}, errors.New("generator: nil extractor")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(materials) {
		workers = len(materials)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]slot, len(materials))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				s := build(ex, materials[idx], opts.Robots)
				if s.err != nil {
					s.err = &MaterialError{Index: idx, ID: materialID(materials[idx]), Err: s.err}
					if !opts.SkipFailed {
						fail(s.err)
					}
				}
				slots[idx] = s
			}
		}()
	}

feed:
	for i := range materials {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return Result{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, s := range slots {
		if s.err != nil {
			res.Skipped++
			log.Warn("material skipped", logger.Error(s.err))
			continue
		}
		res.Disallowed += s.disallowed
		res.Fragments = append(res.Fragments, s.fragments...)
	}
	res.URLCount = len(res.Fragments)
	return res, nil
}

func build[M any](ex *extract.Extractor[M], material M, robots *RobotsFilter) slot {
	entries, err := ex.Entries(material)
	if err != nil {
		return slot{err: err}
	}
	var s slot
	for _, u := range entries {
		if !robots.Allowed(u.Location()) {
			s.disallowed++
			continue
		}
		frag, err := u.Serialize()
		if err != nil {
			return slot{err: err}
		}
		if frag != "" {
			s.fragments = append(s.fragments, frag)
		}
	}
	return s
}

func materialID(m any) string {
	if v, ok := m.(interface{ MaterialID() string }); ok {
		return v.MaterialID()
	}
	return ""
}
