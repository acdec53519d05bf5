package catalog

import (
	"fmt"
	"strings"
)

// Event types (PERF_TYPE_*).
const (
	TypeHardware   uint32 = 0
	TypeSoftware   uint32 = 1
	TypeTracepoint uint32 = 2
	TypeHWCache    uint32 = 3
	TypeRaw        uint32 = 4
)

// Hardware cache ids (PERF_COUNT_HW_CACHE_*).
const (
	CacheL1D  uint64 = 0
	CacheL1I  uint64 = 1
	CacheLL   uint64 = 2
	CacheDTLB uint64 = 3
	CacheITLB uint64 = 4
	CacheBPU  uint64 = 5
	CacheNode uint64 = 6
)

// Cache operations (PERF_COUNT_HW_CACHE_OP_*).
const (
	OpRead     uint64 = 0
	OpWrite    uint64 = 1
	OpPrefetch uint64 = 2
)

// Cache operation results (PERF_COUNT_HW_CACHE_RESULT_*).
const (
	ResultAccess uint64 = 0
	ResultMiss   uint64 = 1
)

// HWCacheConfig packs a hardware cache event config.
func HWCacheConfig(cache, op, result uint64) uint64 {
	return cache | op<<8 | result<<16
}

var typeNames = map[string]uint32{
	"hardware":   TypeHardware,
	"software":   TypeSoftware,
	"tracepoint": TypeTracepoint,
	"hw_cache":   TypeHWCache,
	"raw":        TypeRaw,
}

var cacheNames = map[string]uint64{
	"l1d":  CacheL1D,
	"l1i":  CacheL1I,
	"ll":   CacheLL,
	"dtlb": CacheDTLB,
	"itlb": CacheITLB,
	"bpu":  CacheBPU,
	"node": CacheNode,
}

var opNames = map[string]uint64{
	"read":     OpRead,
	"write":    OpWrite,
	"prefetch": OpPrefetch,
}

var resultNames = map[string]uint64{
	"access": ResultAccess,
	"miss":   ResultMiss,
}

// ParseType resolves an event type name such as "hw_cache".
func ParseType(name string) (uint32, error) {
	return lookupName("event type", typeNames, name)
}

// ParseHWCache resolves cache, op and result names into a packed config.
func ParseHWCache(cache, op, result string) (uint64, error) {
	c, err := lookupName("cache", cacheNames, cache)
	if err != nil {
		return 0, err
	}
	o, err := lookupName("cache op", opNames, op)
	if err != nil {
		return 0, err
	}
	r, err := lookupName("cache result", resultNames, result)
	if err != nil {
		return 0, err
	}
	return HWCacheConfig(c, o, r), nil
}

func lookupName[T any](kind string, names map[string]T, name string) (T, error) {
	v, ok := names[strings.ToLower(name)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s: %q", kind, name)
	}
	return v, nil
}
