package objstore

import (
	"fmt"
	"math/bits"
)

const (
	kb = 1024
	mb = 1024 * kb
)

// CacheConfig holds the window cache's process-wide configuration:
// packedGitLimit, packedGitWindowSize, packedGitMMAP, deltaBaseCacheLimit.
type CacheConfig struct {
	// PackedGitLimit is the maximum number of bytes the cache will hold
	// resident across all live windows.
	PackedGitLimit int64
	// PackedGitWindowSize is the number of bytes per window. Must be a
	// power of two >= 4096.
	PackedGitWindowSize int
	// PackedGitMMAP selects mmap-backed windows over pread+heap-buffer
	// windows.
	PackedGitMMAP bool
	// DeltaBaseCacheLimit bounds the separate delta-base payload cache.
	DeltaBaseCacheLimit int64
}

// DefaultCacheConfig returns the configuration the cache starts with before
// any call to Reconfigure, matching JGit's static initializer defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		PackedGitLimit:      10 * mb,
		PackedGitWindowSize: 8 * kb,
		PackedGitMMAP:       false,
		DeltaBaseCacheLimit: 10 * mb,
	}
}

// windowSizeShift returns log2(windowSize), rejecting anything that is not
// a power of two >= 4096.
func windowSizeShift(windowSize int) (uint, error) {
	if windowSize < 4096 {
		return 0, fmt.Errorf("objstore: invalid window size %d: must be >= 4096", windowSize)
	}
	if bits.OnesCount(uint(windowSize)) != 1 {
		return 0, fmt.Errorf("objstore: invalid window size %d: must be a power of two", windowSize)
	}
	return uint(bits.TrailingZeros(uint(windowSize))), nil
}

// validate rejects unrecognized/inconsistent configuration at reconfigure
// time rather than later.
func (c CacheConfig) validate() (uint, error) {
	shift, err := windowSizeShift(c.PackedGitWindowSize)
	if err != nil {
		return 0, err
	}
	if c.PackedGitLimit < int64(c.PackedGitWindowSize) {
		return 0, fmt.Errorf("objstore: packedGitLimit (%d) must be >= packedGitWindowSize (%d)", c.PackedGitLimit, c.PackedGitWindowSize)
	}
	if c.DeltaBaseCacheLimit < 0 {
		return 0, fmt.Errorf("objstore: deltaBaseCacheLimit must be >= 0")
	}
	return shift, nil
}
