package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/eureka-framework/component-media/errors"
)

// LocalProvider stores objects on the local filesystem under a base directory
// and serves them under a base URL.
type LocalProvider struct {
	basePath string
	baseURL  string
}

// NewLocalProvider creates a local provider rooted at basePath, creating the
// directory if needed.
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	if basePath == "" {
		return nil, errors.NewInvalidInput("base path must not be empty").WithOp("storage.NewLocalProvider")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.NewIO("creating base directory", err).WithPath(basePath)
	}
	return &LocalProvider{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

func (p *LocalProvider) Name() string { return "local" }

// Put writes the content to a temp file and renames it into place, so readers
// never observe a partially written object. The temp file is removed on every
// failure path.
func (p *LocalProvider) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	const op = "storage.LocalProvider.Put"

	fullPath := filepath.Join(p.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", errors.NewIO("creating directory", err).WithOp(op).WithPath(fullPath)
	}

	tmpPath := filepath.Join(p.basePath, "tmp-"+uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", errors.NewIO("creating temp file", err).WithOp(op).WithPath(tmpPath)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", errors.NewIO("writing content", err).WithOp(op).WithPath(tmpPath)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("closing temp file", err).WithOp(op).WithPath(tmpPath)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("moving file into place", err).WithOp(op).WithPath(fullPath)
	}

	return p.URL(key), nil
}

// Exists reports whether the key is present on disk
func (p *LocalProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(p.basePath, filepath.FromSlash(key)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.NewIO("checking file", err).WithPath(key)
}

// Delete removes the key from disk; a missing key is not an error
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(p.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewIO("deleting file", err).WithPath(key)
	}
	return nil
}

// URL joins the base URL and the key. Keys use forward slashes regardless of
// the host filesystem.
func (p *LocalProvider) URL(key string) string {
	return fmt.Sprintf("%s/%s", p.baseURL, path.Clean(key))
}

// BasePath returns the directory the provider is rooted at.
func (p *LocalProvider) BasePath() string { return p.basePath }
