package booking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// ResultCache memoizes parse results by transcript and config. Cached
// results are shared and must not be modified.
type ResultCache struct {
	lru *expirable.LRU[string, *extraction.Result]
}

// NewResultCache creates a cache holding up to size results for ttl
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	return &ResultCache{lru: expirable.NewLRU[string, *extraction.Result](size, nil, ttl)}
}

// Get returns a cached result
func (c *ResultCache) Get(text string, cfg extraction.Config) (*extraction.Result, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(cacheKey(text, cfg))
}

// Add stores a result
func (c *ResultCache) Add(text string, cfg extraction.Config, result *extraction.Result) {
	if c == nil {
		return
	}
	c.lru.Add(cacheKey(text, cfg), result)
}

// Len returns the number of cached results
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func cacheKey(text string, cfg extraction.Config) string {
	digits := make([]int, 0, len(cfg.DigitMap))
	for from := range cfg.DigitMap {
		digits = append(digits, from)
	}
	sort.Ints(digits)

	var b strings.Builder
	fmt.Fprintf(&b, "%d|", cfg.MaxValue)
	for _, from := range digits {
		fmt.Fprintf(&b, "%d=%d,", from, cfg.DigitMap[from])
	}
	b.WriteString("|")
	b.WriteString(text)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
