// Package media is the eureka component-media entry point. It wires the
// image, storage, queue and logging packages together from a single Config.
package media

import (
	"time"

	"github.com/eureka-framework/component-media/config"
	"github.com/eureka-framework/component-media/errors"
	"github.com/eureka-framework/component-media/image"
	"github.com/eureka-framework/component-media/logging"
	"github.com/eureka-framework/component-media/queue"
	"github.com/eureka-framework/component-media/storage"
)

// Component bundles the configured media services.
type Component struct {
	cfg   *config.Config
	log   logging.Logger
	store storage.Provider
	queue *queue.Processor
}

// New builds the component from cfg: logger, storage provider and async
// processor. The processor is started; Close stops it.
func New(cfg *config.Config) (*Component, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	log := logging.NewLogger(cfg.Logging).Named("media")

	store, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	proc := queue.NewProcessor(cfg.Queue.Workers, cfg.Queue.QueueSize, store, log)
	proc.Start()

	return &Component{
		cfg:   cfg,
		log:   log,
		store: store,
		queue: proc,
	}, nil
}

func newProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.CDN.Provider {
	case "local":
		return storage.NewLocalProvider(cfg.CDN.BasePath, cfg.CDN.BaseURL)
	case "oss":
		return storage.NewOSSProvider(storage.OSSOptions{
			Endpoint:        cfg.CDN.OSS.Endpoint,
			AccessKeyID:     cfg.CDN.OSS.AccessKeyID,
			AccessKeySecret: cfg.CDN.OSS.AccessKeySecret,
			Bucket:          cfg.CDN.OSS.Bucket,
			Domain:          cfg.CDN.OSS.Domain,
		})
	}
	return nil, errors.Newf(errors.KindInvalidInput, "unknown storage provider %q", cfg.CDN.Provider)
}

// Name returns the component identifier.
func (c *Component) Name() string { return "media" }

// Open opens an image handle for path.
func (c *Component) Open(path string) (*image.Image, error) {
	return image.Open(path)
}

// Queue returns the async processor.
func (c *Component) Queue() *queue.Processor { return c.queue }

// Storage returns the configured storage provider.
func (c *Component) Storage() storage.Provider { return c.store }

// Logger returns the component logger.
func (c *Component) Logger() logging.Logger { return c.log }

// Config returns the configuration the component was built from.
func (c *Component) Config() *config.Config { return c.cfg }

// Close stops the processor and flushes the logger.
func (c *Component) Close() error {
	err := c.queue.Stop(30 * time.Second)
	_ = c.log.Sync()
	return err
}
