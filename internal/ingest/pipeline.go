// ABOUTME: Concurrent document ingestion over a bounded worker pool
// ABOUTME: Walks a directory tree and feeds matching files to the engine, stopping early on rate limits
package ingest

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/quarry-labs/quarry/internal/rag"
	"github.com/quarry-labs/quarry/internal/ratelimit"
)

// defaultIncludes matches the file types the engine can ingest.
var defaultIncludes = []string{"*.md", "*.txt"}

// Ingestor is the single engine operation the pipeline drives.
type Ingestor interface {
	AddDocument(ctx context.Context, path string, tags []string, basePath string) (*rag.AddResult, error)
}

// Options tunes one ingestion run.
type Options struct {
	// Tags are attached to every ingested document.
	Tags []string
	// BasePath roots the filesystem-derived section prefixes. Empty means
	// the scanned directory, so section paths mirror the tree layout.
	BasePath string
	// Include holds base-name glob patterns; empty means *.md and *.txt.
	Include []string
	// Workers bounds the pool. Non-positive means half the CPUs, minimum 1.
	Workers int
}

// FileResult records one attempted file.
type FileResult struct {
	Path   string
	DocID  string
	Chunks int
	Err    error
}

// Summary reports one ingestion run. Skipped lists files that were never
// attempted because a rate limit stopped the run.
type Summary struct {
	Succeeded   int
	Failed      int
	Chunks      int
	Results     []FileResult
	Skipped     []string
	RateLimited error
}

// Scanned returns how many files matched the include patterns.
func (s *Summary) Scanned() int {
	return len(s.Results) + len(s.Skipped)
}

// Pipeline ingests a directory tree concurrently.
type Pipeline struct {
	engine  Ingestor
	opts    Options
	workers int
}

// New creates a pipeline over the given engine.
func New(engine Ingestor, opts Options) *Pipeline {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}
	if len(opts.Include) == 0 {
		opts.Include = defaultIncludes
	}
	return &Pipeline{engine: engine, opts: opts, workers: workers}
}

// Run walks dir, submits every matching file to the pool, and waits for
// all workers. The first rate-limit rejection stops further submission;
// already-queued files are skipped rather than burned against the limit,
// and the error is surfaced on the summary with its wait hint intact.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Summary, error) {
	files, err := p.collectFiles(dir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Results: []FileResult{}}
	if len(files) == 0 {
		return summary, nil
	}

	basePath := p.opts.BasePath
	if basePath == "" {
		basePath = dir
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		stopped bool
	)

	for _, path := range files {
		mu.Lock()
		stop := stopped
		mu.Unlock()
		if stop || ctx.Err() != nil {
			summary.Skipped = append(summary.Skipped, path)
			continue
		}

		path := path
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			mu.Lock()
			if stopped {
				summary.Skipped = append(summary.Skipped, path)
				mu.Unlock()
				return
			}
			mu.Unlock()

			res, err := p.engine.AddDocument(ctx, path, p.opts.Tags, basePath)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Results = append(summary.Results, FileResult{Path: path, Err: err})
				if ratelimit.IsRateLimited(err) && summary.RateLimited == nil {
					summary.RateLimited = err
					stopped = true
				}
				return
			}
			summary.Results = append(summary.Results, FileResult{Path: path, DocID: res.DocID, Chunks: res.NumChunks})
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			summary.Results = append(summary.Results, FileResult{Path: path, Err: submitErr})
			mu.Unlock()
		}
	}

	wg.Wait()

	sort.Slice(summary.Results, func(i, j int) bool { return summary.Results[i].Path < summary.Results[j].Path })
	sort.Strings(summary.Skipped)
	for _, r := range summary.Results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Chunks += r.Chunks
	}
	return summary, nil
}

// collectFiles walks dir and returns matching file paths in lexical order.
// Hidden directories are not descended into.
func (p *Pipeline) collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		match, err := p.matches(d.Name())
		if err != nil {
			return err
		}
		if match {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (p *Pipeline) matches(name string) (bool, error) {
	for _, pattern := range p.opts.Include {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
