// Package perf counts hardware events for the calling thread through the
// Linux perf_event facility.
//
// Counters are registered once in a Registry. A Session then runs them
// through measurement windows:
//
//	reg := perf.NewRegistry()
//	_ = reg.Register("dtlb_read_miss", func(a *perf.EventAttr) {
//	    a.Type = 3 // PERF_TYPE_HW_CACHE
//	    a.Config = 3 | 0<<8 | 1<<16
//	})
//
//	s := perf.NewSession(reg)
//	s.Initialize()
//	work()
//	report := s.Finalize()
//
// Initialize never fails as a whole. A counter the kernel refuses is
// marked failed and shows up as "not run" in the report.
//
// When the kernel multiplexes more counters than the PMU has, each counter
// runs for only part of the window. Finalize scales the raw count by
// time_enabled/time_running to estimate the full-window value.
//
// Counters are read independently by default. Grouped reads put all
// counters in one kernel group so they share a window, selected with
// WithMode or by building with -tags perfgroup.
package perf
