package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
)

// AssetCache keeps decoded card art (backdrops, element icons, deco) in
// memory behind a cost-bounded ristretto cache. It is constructed once at
// process start and passed by handle into the renderer; Close is the explicit
// shutdown hook.
type AssetCache struct {
	dir    string
	cache  *ristretto.Cache
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewAssetCache(dir string, maxBytes int64, logger *logrus.Logger) (*AssetCache, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 14,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset cache: %w", err)
	}
	return &AssetCache{dir: dir, cache: cache, logger: logger}, nil
}

// Image returns the decoded asset by relative name, loading and caching it on
// first use. A missing or undecodable asset is not an error: cards render
// without optional art.
func (a *AssetCache) Image(name string) (image.Image, bool) {
	if v, ok := a.cache.Get(name); ok {
		img, ok := v.(image.Image)
		return img, ok
	}

	// Single loader at a time; duplicate decodes of the same asset are
	// harmless but wasteful.
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.cache.Get(name); ok {
		img, ok := v.(image.Image)
		return img, ok
	}

	f, err := os.Open(filepath.Join(a.dir, filepath.Clean(name)))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		a.logger.WithField("asset", name).WithError(err).Warn("failed to decode card asset")
		return nil, false
	}
	bounds := img.Bounds()
	cost := int64(bounds.Dx()) * int64(bounds.Dy()) * 4
	a.cache.Set(name, img, cost)
	a.cache.Wait()
	return img, true
}

// Close releases the cache. Safe to call once during shutdown.
func (a *AssetCache) Close() {
	a.cache.Close()
}
