package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/eureka-framework/component-media/logging"
)

// Config is the component-media configuration tree.
type Config struct {
	Image   ImageConfig    `mapstructure:"image" json:"image" yaml:"image"`
	CDN     CDNConfig      `mapstructure:"cdn" json:"cdn" yaml:"cdn"`
	Queue   QueueConfig    `mapstructure:"queue" json:"queue" yaml:"queue"`
	Logging logging.Config `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// ImageConfig carries the encode defaults.
type ImageConfig struct {
	// JPEGQuality is the default JPEG encode quality.
	JPEGQuality int `mapstructure:"jpeg-quality" json:"jpegQuality" yaml:"jpeg-quality" default:"100" validate:"min=0,max=100"`

	// PNGCompression is the default PNG compression level (zlib scale).
	PNGCompression int `mapstructure:"png-compression" json:"pngCompression" yaml:"png-compression" default:"0" validate:"min=0,max=9"`
}

// CDNConfig selects and configures the storage backend.
type CDNConfig struct {
	// Provider is the storage backend: local or oss.
	Provider string `mapstructure:"provider" json:"provider" yaml:"provider" default:"local" validate:"oneof=local oss"`

	// Format is the default CDN encode target: jpeg or png.
	Format string `mapstructure:"format" json:"format" yaml:"format" default:"jpeg" validate:"oneof=jpeg png"`

	// BasePath is the local storage root. Required for the local provider.
	BasePath string `mapstructure:"base-path" json:"basePath" yaml:"base-path" default:"cdn"`

	// BaseURL is the public URL prefix objects are served under.
	BaseURL string `mapstructure:"base-url" json:"baseURL" yaml:"base-url" default:"/media"`

	OSS OSSConfig `mapstructure:"oss" json:"oss" yaml:"oss"`
}

// OSSConfig carries the Aliyun OSS credentials for the oss provider.
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"access-key-id" json:"accessKeyId" yaml:"access-key-id"`
	AccessKeySecret string `mapstructure:"access-key-secret" json:"-" yaml:"access-key-secret"`
	Bucket          string `mapstructure:"bucket" json:"bucket" yaml:"bucket"`
	Domain          string `mapstructure:"domain" json:"domain" yaml:"domain"`
}

// QueueConfig sizes the async processor.
type QueueConfig struct {
	Workers   int `mapstructure:"workers" json:"workers" yaml:"workers" default:"4" validate:"min=1"`
	QueueSize int `mapstructure:"queue-size" json:"queueSize" yaml:"queue-size" default:"100" validate:"min=1"`
	Retries   int `mapstructure:"retries" json:"retries" yaml:"retries" default:"0" validate:"min=0"`
}

// Options controls where the configuration is loaded from.
type Options struct {
	// Path is an explicit config file path. When empty, BasePath, FileName
	// and FileType locate the file.
	Path      string
	BasePath  string
	FileName  string
	FileType  string
	EnvPrefix string
	Watch     bool
	OnChange  func(e fsnotify.Event)
}

// Loader holds the viper instance behind a loaded Config so watchers can
// rebind on change.
type Loader struct {
	instance   *viper.Viper
	opts       Options
	watchOnce  sync.Once
	watchMutex sync.RWMutex
}
