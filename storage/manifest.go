package storage

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/eureka-framework/component-media/errors"
	"github.com/eureka-framework/component-media/json"
)

// Manifest is the sidecar record stored next to a CDN object, keyed as
// "<key>.json". It carries the provenance a content-addressed path erases.
type Manifest struct {
	Hash       string    `json:"hash"`
	MimeType   string    `json:"mime_type"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Size       int64     `json:"size"`
	SourceName string    `json:"source_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ManifestKey returns the sidecar key for an object key.
func ManifestKey(key string) string {
	return key + ".json"
}

// PutManifest stores the manifest sidecar for key on the provider.
func PutManifest(ctx context.Context, p Provider, key string, m Manifest) error {
	data, err := json.Marshal(&m)
	if err != nil {
		return errors.NewIO("marshaling manifest", err).WithPath(key)
	}
	if _, err := p.Put(ctx, ManifestKey(key), bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

// LoadManifest reads a manifest sidecar from a local file path.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.NewIO("reading manifest", err).WithPath(path)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.NewIO("unmarshaling manifest", err).WithPath(path)
	}
	return m, nil
}
