package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/fetch"
	"github.com/user/ocrbot/internal/types"
)

// DefaultConcurrency bounds how many downloads run at once in a batch.
const DefaultConcurrency = 4

// Downloader fetches one URL. *fetch.Fetcher satisfies it.
type Downloader interface {
	Fetch(ctx context.Context, url string) (*fetch.Resource, error)
}

// Job is one buffered image waiting for recognition.
type Job struct {
	Name string
	URL  string
	Data []byte
}

// Result is the outcome of one job. Err is set, with code errs.Recognition,
// when the engine failed on this job; Text is then empty.
type Result struct {
	Name string
	Text string
	Err  error
}

// Pipeline downloads a batch of images and recognises them with a single
// worker.
type Pipeline struct {
	downloader  Downloader
	engine      Engine
	concurrency int
	normalize   func([]byte) []byte
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency bounds parallel downloads. Values below 1 are ignored.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithNormalizer replaces the image pre-processing step.
func WithNormalizer(fn func([]byte) []byte) PipelineOption {
	return func(p *Pipeline) { p.normalize = fn }
}

// NewPipeline creates a Pipeline.
func NewPipeline(d Downloader, e Engine, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		downloader:  d,
		engine:      e,
		concurrency: DefaultConcurrency,
		normalize:   Normalize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RecognizeAll downloads every URL concurrently and recognises the images
// sequentially, returning results in URL order. Any download failure fails
// the whole batch. A recognition failure is recorded on its Result and the
// batch continues.
func (p *Pipeline) RecognizeAll(ctx context.Context, urls []string) ([]Result, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	batchID := types.NewBatchID()
	start := time.Now()

	jobs, err := p.download(ctx, urls)
	if err != nil {
		return nil, err
	}

	results, err := p.recognize(ctx, batchID, jobs)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("ocr batch complete",
		"batch_id", types.ShortID(batchID),
		"jobs", len(results),
		"failed", failed,
		"duration", time.Since(start),
	)
	return results, nil
}

// download names every job up front, in URL order, then fills each job's
// buffer as its download completes.
func (p *Pipeline) download(ctx context.Context, urls []string) ([]Job, error) {
	namer := NewNamer()
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		name, err := namer.Name(u)
		if err != nil {
			return nil, err
		}
		jobs[i] = Job{Name: name, URL: u}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range jobs {
		g.Go(func() error {
			res, err := p.downloader.Fetch(gctx, jobs[i].URL)
			if err != nil {
				return fmt.Errorf("download %s: %w", jobs[i].Name, err)
			}
			jobs[i].Data = p.normalize(res.Body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (p *Pipeline) recognize(ctx context.Context, batchID types.BatchID, jobs []Job) ([]Result, error) {
	worker, err := p.engine.NewWorker(ctx)
	if err != nil {
		return nil, errs.Wrap(err, errs.Recognition, "start recognition worker")
	}
	defer func() {
		if err := worker.Close(); err != nil {
			slog.Warn("close recognition worker", "batch_id", types.ShortID(batchID), "error", err)
		}
	}()

	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := worker.Recognize(ctx, job.Data)
		if err != nil {
			rerr := RecognitionError(err)
			slog.Error("recognition failed", "batch_id", types.ShortID(batchID), "name", job.Name, "error", rerr)
			results = append(results, Result{Name: job.Name, Err: rerr})
			continue
		}
		results = append(results, Result{Name: job.Name, Text: text})
	}
	return results, nil
}
