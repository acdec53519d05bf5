//go:build linux

package catalog

import (
	"testing"

	"github.com/neox5/tlbreport/internal/perf"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestConstantsMatchKernelABI(t *testing.T) {
	assert.EqualValues(t, unix.PERF_TYPE_HARDWARE, TypeHardware)
	assert.EqualValues(t, unix.PERF_TYPE_SOFTWARE, TypeSoftware)
	assert.EqualValues(t, unix.PERF_TYPE_TRACEPOINT, TypeTracepoint)
	assert.EqualValues(t, unix.PERF_TYPE_HW_CACHE, TypeHWCache)
	assert.EqualValues(t, unix.PERF_TYPE_RAW, TypeRaw)

	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_L1D, CacheL1D)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_L1I, CacheL1I)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_LL, CacheLL)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_DTLB, CacheDTLB)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_ITLB, CacheITLB)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_BPU, CacheBPU)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_NODE, CacheNode)

	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_OP_READ, OpRead)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_OP_WRITE, OpWrite)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_OP_PREFETCH, OpPrefetch)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS, ResultAccess)
	assert.EqualValues(t, unix.PERF_COUNT_HW_CACHE_RESULT_MISS, ResultMiss)

	assert.EqualValues(t, unix.PERF_FORMAT_TOTAL_TIME_ENABLED, perf.FormatTotalTimeEnabled)
	assert.EqualValues(t, unix.PERF_FORMAT_TOTAL_TIME_RUNNING, perf.FormatTotalTimeRunning)
	assert.EqualValues(t, unix.PERF_FORMAT_ID, perf.FormatID)
	assert.EqualValues(t, unix.PERF_FORMAT_GROUP, perf.FormatGroup)
}
