// Package bus holds named frames that are loaded on demand.
//
// A Bus maps an ordered set of unique names to frames. Frames either start
// resident (New) or are read lazily from a Source, typically a blob store
// written by Persist and reopened with Open. With WithMaxResident the number
// of simultaneously resident frames is bounded: after Get loads a frame it
// evicts the least recently used other frames until the bound holds again.
// Evicted entries keep their name and shape.
//
// Residency only changes inside Get and Items. Status, Keys and the other
// metadata queries never load or evict.
//
// A Yarn concatenates several buses under one index without copying or
// loading anything; each frame stays owned by, and counted against, the bus
// it came from.
//
// Bus and Yarn are safe for concurrent use, but loads are serialized per
// bus.
package bus
