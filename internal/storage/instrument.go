package storage

import (
	"context"
	"time"

	"serotonyl.ru/ecotrack/internal/metrics"
)

// Instrument оборачивает драйвер метриками задержек и ошибок.
func Instrument(s Substrate, backend string) Substrate {
	return &instrumented{next: s, backend: backend}
}

type instrumented struct {
	next    Substrate
	backend string
}

func (i *instrumented) GetItem(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.next.GetItem(ctx, key)
	metrics.ObserveStorage(i.backend, "get", start, err)
	return v, ok, err
}

func (i *instrumented) SetItem(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.next.SetItem(ctx, key, value)
	metrics.ObserveStorage(i.backend, "set", start, err)
	return err
}

func (i *instrumented) RemoveItem(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.RemoveItem(ctx, key)
	metrics.ObserveStorage(i.backend, "remove", start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return Ping(ctx, i.next)
}
