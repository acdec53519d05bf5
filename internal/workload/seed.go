package workload

import (
	"sync"
	"time"

	"github.com/neox5/simv/seed"
)

var seedOnce sync.Once

// InitSeed initializes the simv seed registry the first time it is called
// and returns the master seed in effect. A nil seed is time-based. Later
// calls leave the registry as it is.
func InitSeed(s *uint64) uint64 {
	seedOnce.Do(func() {
		master := uint64(time.Now().UnixNano())
		if s != nil {
			master = *s
		}
		seed.Init(master)
	})

	master, _ := seed.Current()
	return master
}
