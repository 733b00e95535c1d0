// Package queue runs batches of image transform jobs against a storage
// provider. Each job opens its own image handle, so the single-threaded image
// API stays single-threaded; concurrency exists across jobs only.
package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eureka-framework/component-media/errors"
	"github.com/eureka-framework/component-media/image"
	"github.com/eureka-framework/component-media/logging"
	"github.com/eureka-framework/component-media/storage"
)

// Step is one transform applied to an image before it is stored.
type Step interface {
	Apply(im *image.Image) error
}

// CropSquareStep crops the image to its largest centered square.
type CropSquareStep struct{}

func (CropSquareStep) Apply(im *image.Image) error {
	return im.CropSquare()
}

// ResizeStep resamples the image to the given dimensions.
type ResizeStep struct {
	Width     int
	Height    int
	KeepRatio bool
}

func (s ResizeStep) Apply(im *image.Image) error {
	return im.Resize(s.Width, s.Height, s.KeepRatio)
}

// Job names a source file, the steps to apply and the encode target. The
// result lands on the provider under its content-addressed key.
type Job struct {
	SourcePath  string
	Steps       []Step
	Format      image.Format // JPEG or PNG
	Quality     int          // JPEG quality, 0-100
	Compression int          // PNG compression, 0-9
	Retries     int
	Callback    func(Result)
}

// Result reports the outcome of one job.
type Result struct {
	SourcePath string
	Key        string
	URL        string
	Width      int
	Height     int
	Size       int64
	Err        error
}

// Processor is the worker pool that drains the job queue.
type Processor struct {
	workers int
	jobs    chan Job
	store   storage.Provider
	log     logging.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards closed and every send on jobs, so Stop can close the
	// channel without racing an in-flight Submit.
	mu     sync.Mutex
	closed bool
}

// NewProcessor creates a processor with the given worker count and queue
// capacity, storing results on store.
func NewProcessor(workers, queueSize int, store storage.Provider, log logging.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		store:   store,
		log:     log.Named("queue"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Processor) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := p.process(job)
			if result.Err != nil {
				p.log.WithError(result.Err).Error("job failed", zap.String("source", job.SourcePath))
			} else {
				p.log.Info("job done",
					zap.String("source", job.SourcePath),
					zap.String("key", result.Key),
					zap.Int64("size", result.Size))
			}
			if job.Callback != nil {
				job.Callback(result)
			}
		}
	}
}

// process runs one job, retrying per the job's retry budget.
func (p *Processor) process(job Job) Result {
	result := Result{SourcePath: job.SourcePath}
	for attempt := 0; attempt <= job.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		result.Err = p.runOnce(job, &result)
		if result.Err == nil {
			return result
		}
	}
	return result
}

func (p *Processor) runOnce(job Job, result *Result) error {
	im, err := image.Open(job.SourcePath)
	if err != nil {
		return err
	}

	for _, step := range job.Steps {
		if err := step.Apply(im); err != nil {
			return err
		}
	}

	tmpPath := filepath.Join(os.TempDir(), "eureka-media-"+uuid.NewString())
	var saved *image.Image
	switch job.Format {
	case image.FormatJPEG:
		saved, err = im.SaveAsJPEG(tmpPath, job.Quality)
	case image.FormatPNG:
		saved, err = im.SaveAsPNG(tmpPath, job.Compression)
	default:
		return errors.NewUnsupportedFormat(string(job.Format)).WithOp("queue.process")
	}
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	hash, err := saved.Hash()
	if err != nil {
		return err
	}
	key := filepath.ToSlash(image.CDNRelPath(hash, job.Format))

	f, err := os.Open(tmpPath)
	if err != nil {
		return errors.NewIO("opening encoded file", err).WithPath(tmpPath)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return errors.NewIO("sizing encoded file", err).WithPath(tmpPath)
	}

	url, err := p.store.Put(p.ctx, key, f)
	if err != nil {
		return err
	}

	manifest := storage.Manifest{
		Hash:       hash,
		MimeType:   saved.MimeType(),
		Width:      saved.Width(),
		Height:     saved.Height(),
		Size:       info.Size(),
		SourceName: filepath.Base(job.SourcePath),
		CreatedAt:  time.Now().UTC(),
	}
	if err := storage.PutManifest(p.ctx, p.store, key, manifest); err != nil {
		return err
	}

	result.Key = key
	result.URL = url
	result.Width = saved.Width()
	result.Height = saved.Height()
	result.Size = info.Size()
	return nil
}

// Submit enqueues a job. It fails when the queue is full or the processor is
// shutting down.
func (p *Processor) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("processor is shutting down")
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return fmt.Errorf("job queue is full")
	}
}

// SubmitBatch enqueues jobs in order, stopping at the first failure.
func (p *Processor) SubmitBatch(jobs []Job) error {
	for i, job := range jobs {
		if err := p.Submit(job); err != nil {
			return fmt.Errorf("submitting job %d: %w", i, err)
		}
	}
	return nil
}

// QueueLen returns the number of queued jobs.
func (p *Processor) QueueLen() int {
	return len(p.jobs)
}

// Stop rejects new jobs, closes the queue and waits for the workers, up to
// the timeout. Jobs still queued once the workers exit never run; each is
// reported through its callback with a shutdown error, so every accepted job
// produces exactly one result. Stop is idempotent.
func (p *Processor) Stop(timeout time.Duration) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for jobs to complete")
	}

	for job := range p.jobs {
		if job.Callback != nil {
			job.Callback(Result{
				SourcePath: job.SourcePath,
				Err:        fmt.Errorf("processor stopped before the job ran"),
			})
		}
	}
	return nil
}
