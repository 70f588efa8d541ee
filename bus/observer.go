package bus

import (
	"time"

	"github.com/hupe1980/sframe/index"
)

// Observer receives residency and persistence events.
type Observer interface {
	// OnLoad is called after a frame was read from the source.
	OnLoad(name index.Label, duration time.Duration, bytes int, err error)

	// OnHit is called when Get finds the frame resident.
	OnHit(name index.Label)

	// OnEvict is called when a resident frame is released.
	OnEvict(name index.Label)

	// OnPersist is called when Persist finishes.
	OnPersist(duration time.Duration, frames int, err error)
}

// BusObserver is an Observer that tags events with the bus name. Rename
// gives the renamed bus the observer returned by ForBus.
type BusObserver interface {
	Observer
	ForBus(name index.Label) Observer
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnLoad(index.Label, time.Duration, int, error) {}
func (NoopObserver) OnHit(index.Label)                              {}
func (NoopObserver) OnEvict(index.Label)                            {}
func (NoopObserver) OnPersist(time.Duration, int, error)            {}
