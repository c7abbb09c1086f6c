// Package storage persists report images. Files are content-addressed: the
// sha256 of the bytes names the object, so a crash between the file write
// and the database commit leaves at worst an orphan that a sweep can
// collect. Nothing is ever deleted-then-rewritten in place.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ImageStore is the process-wide handle to wherever report images live.
type ImageStore interface {
	// Save writes the image under its content hash and returns the stored name.
	Save(ctx context.Context, data []byte) (string, error)
	Remove(ctx context.Context, name string) error
	URL(name string) string
}

const thumbnailWidth = 320

// hashName derives the stored object name from the image bytes.
func hashName(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + ".jpg"
}

// FileStore keeps images on local disk under a single directory, with a
// feed thumbnail next to each full-size file.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &FileStore{dir: dir, baseURL: baseURL}, nil
}

func (f *FileStore) Save(_ context.Context, data []byte) (string, error) {
	name := hashName(data)
	path := filepath.Join(f.dir, name)

	if _, err := os.Stat(path); err == nil {
		// Same bytes, same name: already stored.
		return name, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
		_ = imaging.Save(thumb, filepath.Join(f.dir, "thumb_"+name))
	}

	return name, nil
}

func (f *FileStore) Remove(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	_ = os.Remove(filepath.Join(f.dir, "thumb_"+name))
	return nil
}

func (f *FileStore) URL(name string) string {
	return f.baseURL + "/uploads/" + name
}

// Dir exposes the root for the static file route.
func (f *FileStore) Dir() string {
	return f.dir
}

// DecodeBounds returns the pixel dimensions of an encoded image.
func DecodeBounds(data []byte) (width, height int, err error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

var _ ImageStore = (*FileStore)(nil)
