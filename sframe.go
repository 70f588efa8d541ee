package sframe

import (
	"context"

	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/bus"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/index"
)

// NewBus creates a bus holding frames, all resident, with logging and
// metrics wired from the options.
func NewBus(frames []*frame.Frame, optFns ...Option) (*bus.Bus, error) {
	o := applyOptions(optFns)
	obs := newBusObserver(o)
	b, err := bus.New(frames, o.busOptionsWith(obs)...)
	if err != nil {
		return nil, err
	}
	obs.bind(b.Name())
	return b, nil
}

// NewLazyBus creates a bus whose frames are read from src on first access.
func NewLazyBus(names []index.Label, src bus.Source, optFns ...Option) (*bus.Bus, error) {
	o := applyOptions(optFns)
	obs := newBusObserver(o)
	b, err := bus.NewLazy(names, src, o.busOptionsWith(obs)...)
	if err != nil {
		return nil, err
	}
	obs.bind(b.Name())
	return b, nil
}

// OpenBus reopens a bus persisted under prefix in store. No frame is read
// until it is requested.
//
//	store := blobstore.NewLocalStore("./data")
//	b, _ := sframe.OpenBus(ctx, store, "quotes", sframe.WithMaxResident(4))
//	f, _ := b.Get(ctx, "2024-01")
func OpenBus(ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (*bus.Bus, error) {
	o := applyOptions(optFns)
	obs := newBusObserver(o)
	b, err := bus.Open(ctx, store, prefix, o.busOptionsWith(obs)...)
	if err != nil {
		o.logger.LogOpen(ctx, prefix, 0, err)
		return nil, err
	}
	obs.bind(b.Name())
	obs.logger.LogOpen(ctx, prefix, b.Len(), nil)
	return b, nil
}

func (o options) busOptionsWith(obs bus.Observer) []bus.Option {
	out := make([]bus.Option, 0, len(o.busOptions)+1)
	out = append(out, bus.WithObserver(obs))
	return append(out, o.busOptions...)
}
