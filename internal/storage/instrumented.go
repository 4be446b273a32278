package storage

import (
	"context"

	"github.com/geocoder89/coursehub/internal/observability"
)

type instrumented struct {
	next Storage
	prom *observability.Prom
}

// Instrument records latency and errors of every operation on next.
func Instrument(next Storage, prom *observability.Prom) Storage {
	if prom == nil {
		return next
	}
	return &instrumented{next: next, prom: prom}
}

func (s *instrumented) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.prom.ObserveStorage("get:"+key, func() error {
		var e error
		value, ok, e = s.next.Get(ctx, key)
		return e
	})
	return
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	return s.prom.ObserveStorage("set:"+key, func() error {
		return s.next.Set(ctx, key, value)
	})
}

func (s *instrumented) Remove(ctx context.Context, key string) error {
	return s.prom.ObserveStorage("remove:"+key, func() error {
		return s.next.Remove(ctx, key)
	})
}

func (s *instrumented) Ping(ctx context.Context) error {
	return Ping(ctx, s.next)
}
