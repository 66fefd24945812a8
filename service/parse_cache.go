package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/r7330980/gennm/internal/analyzer"
	"github.com/r7330980/gennm/internal/parser"
	"golang.org/x/sync/errgroup"
)

// parseCacheHashKey is the fixed 32-byte key highwayhash requires. Content
// addressing only needs a stable, collision-resistant digest, not a MAC, so
// a well-known key is fine here.
var parseCacheHashKey = make([]byte, 32)

// ContentKey returns a hex-encoded highwayhash digest of file content.
// ParseCache does not use it: the cache is keyed by file path, so identical
// content under two paths is parsed twice.
func ContentKey(content []byte) string {
	sum := highwayhash.Sum(content, parseCacheHashKey)
	return hex.EncodeToString(sum[:])
}

// FileParseResult holds the cached parse and lowering outcome for one file.
type FileParseResult struct {
	Content  []byte
	Parsed   *parser.Result
	Funcs    []*analyzer.Function
	ParseErr error
	LowerErr error
}

// ParseCache stores pre-parsed/lowered results for sharing across the
// lowering pipeline and the summary reporter. After Seal() the cache is
// read-only and safe for lock-free concurrent reads.
type ParseCache struct {
	results map[string]*FileParseResult
	sealed  bool
}

// NewParseCache creates a new empty ParseCache.
func NewParseCache() *ParseCache {
	return &ParseCache{results: make(map[string]*FileParseResult)}
}

// Put stores a parse result, keyed by file path. Must be called before Seal.
func (c *ParseCache) Put(filePath string, result *FileParseResult) {
	if c.sealed {
		return
	}
	c.results[filePath] = result
}

// Seal marks the cache read-only.
func (c *ParseCache) Seal() {
	c.sealed = true
}

// Get retrieves a cached result. Returns (result, true) on hit.
func (c *ParseCache) Get(filePath string) (*FileParseResult, bool) {
	r, ok := c.results[filePath]
	return r, ok
}

// Len returns the number of entries in the cache.
func (c *ParseCache) Len() int {
	return len(c.results)
}

// ParseCachePopulatorConfig controls how PopulateParseCache works.
type ParseCachePopulatorConfig struct {
	Lower       bool // whether to also lower every function found
	Concurrency int  // 0 means runtime.GOMAXPROCS(0)
}

// PopulateParseCache parses (and optionally lowers) every file concurrently
// and returns a sealed cache. Each goroutine uses its own parser.Parser,
// since tree-sitter parsers are not safe for concurrent use.
func PopulateParseCache(ctx context.Context, files []string, cfg ParseCachePopulatorConfig) *ParseCache {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	cache := NewParseCache()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, filePath := range files {
		fp := filePath
		g.Go(func() error {
			r := &FileParseResult{}
			defer func() {
				mu.Lock()
				cache.Put(fp, r)
				mu.Unlock()
			}()

			content, err := os.ReadFile(fp)
			if err != nil {
				r.ParseErr = fmt.Errorf("failed to read file %s: %w", fp, err)
				return nil
			}
			r.Content = content

			p := parser.New()
			defer p.Close()

			parsed, err := p.Parse(gctx, content)
			if err != nil {
				r.ParseErr = fmt.Errorf("parse error in %s: %w", fp, err)
				return nil
			}
			r.Parsed = parsed

			if cfg.Lower {
				defs := parser.FindFunctionDefs(parsed.Root)
				r.Funcs = make([]*analyzer.Function, 0, len(defs))
				for _, def := range defs {
					fn, lowerErr := analyzer.LowerFunctionSafely(def)
					if lowerErr != nil {
						r.LowerErr = fmt.Errorf("failed to lower function %s in %s: %w", def.Name, fp, lowerErr)
						continue
					}
					r.Funcs = append(r.Funcs, fn)
				}
			}
			return nil
		})
	}

	_ = g.Wait()
	cache.Seal()
	return cache
}
