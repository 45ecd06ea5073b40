// Package gallery serves the bundled demo images as base64 JPEG data URIs.
//
// Images are read from a directory on first use and cached in memory for the
// lifetime of the process, so repeated gallery requests avoid redundant disk
// I/O and re-encoding.
package gallery

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP format decoder
)

// Supported source formats, by file extension.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Image is one demo gallery entry. Name is the filename without extension;
// the payload is always re-encoded as JPEG regardless of the source format.
type Image struct {
	Name        string `json:"name"`
	ImageBase64 string `json:"image_base64"`
}

// Gallery lazily loads and caches the demo images from a directory.
// It is safe for concurrent use.
type Gallery struct {
	dir     string
	quality int

	mu     sync.Mutex
	loaded bool
	images []Image
}

// New returns a gallery reading from dir. quality is the JPEG re-encode
// quality; values outside 1-100 fall back to 95.
func New(dir string, quality int) *Gallery {
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	return &Gallery{dir: dir, quality: quality}
}

// List returns the demo images, scanning the directory on the first call and
// serving the cached result afterwards. A missing or unreadable directory
// yields an empty list and an error; the next call rescans, so a directory
// created later is picked up.
func (g *Gallery) List() ([]Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loaded {
		return g.images, nil
	}

	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, fmt.Errorf("demo folder not available: %w", err)
	}

	images := make([]Image, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !supportedExts[ext] {
			continue
		}

		img, err := imaging.Open(filepath.Join(g.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read demo image %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(g.quality)); err != nil {
			return nil, fmt.Errorf("failed to encode demo image %s: %w", entry.Name(), err)
		}

		images = append(images, Image{
			Name:        strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			ImageBase64: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
	}

	g.images = images
	g.loaded = true
	return images, nil
}

// Reset drops the cache so the next List call rescans the directory.
func (g *Gallery) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loaded = false
	g.images = nil
}
