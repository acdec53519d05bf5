// Package catalog defines which hardware events get counted. The counter
// mechanism in package perf knows nothing about specific events.
package catalog

import (
	"fmt"
	"log/slog"

	"github.com/neox5/tlbreport/internal/perf"
)

// Event is a declarative counter definition.
type Event struct {
	Name        string
	Type        uint32
	Config      uint64
	Description string
}

// Configure fills attr with the event's type and config.
func (e Event) Configure(attr *perf.EventAttr) {
	attr.Type = e.Type
	attr.Config = e.Config
}

func dtlb(name string, op, result uint64, desc string) Event {
	return Event{
		Name:        name,
		Type:        TypeHWCache,
		Config:      HWCacheConfig(CacheDTLB, op, result),
		Description: desc,
	}
}

var tlb = []Event{
	dtlb("tlb_data_read_access", OpRead, ResultAccess, "Data TLB lookups for loads"),
	dtlb("tlb_data_read_miss", OpRead, ResultMiss, "Data TLB misses for loads"),
	dtlb("tlb_data_write_access", OpWrite, ResultAccess, "Data TLB lookups for stores"),
	dtlb("tlb_data_write_miss", OpWrite, ResultMiss, "Data TLB misses for stores"),
	dtlb("tlb_data_prefetch_access", OpPrefetch, ResultAccess, "Data TLB lookups for prefetches"),
	dtlb("tlb_data_prefetch_miss", OpPrefetch, ResultMiss, "Data TLB misses for prefetches"),
}

// Default returns the data TLB events counted when nothing is configured.
func Default() []Event {
	out := make([]Event, len(tlb))
	copy(out, tlb)
	return out
}

// Lookup finds a default event by name.
func Lookup(name string) (Event, bool) {
	for _, e := range tlb {
		if e.Name == name {
			return e, true
		}
	}
	return Event{}, false
}

// RegisterAll registers every event with reg, in order.
func RegisterAll(reg *perf.Registry, events []Event) error {
	for _, e := range events {
		slog.Debug("registering performance event", "counter", e.Name,
			"type", e.Type, "config", fmt.Sprintf("%#x", e.Config))
		if err := reg.Register(e.Name, e.Configure); err != nil {
			return fmt.Errorf("failed to register %q: %w", e.Name, err)
		}
	}
	return nil
}
