package storage

import (
	"context"
	"errors"
)

const DefaultNamespace = "reflex_best"

var ErrUnknownDriver = errors.New("unknown store driver")

// Repository persists the single best-ever reaction time. LoadBest reports
// ok=false when nothing usable is stored.
type Repository interface {
	LoadBest(ctx context.Context) (ms int, ok bool, err error)

	SaveBest(ctx context.Context, ms int) error

	Close() error
}
