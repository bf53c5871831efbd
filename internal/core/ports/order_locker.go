package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
)

// OrderLocker serializes writes to one order aggregate. Writes to different
// orders proceed in parallel.
type OrderLocker interface {
	// Lock blocks until the lock for id is held or ctx is done. The returned
	// function releases the lock and is safe to call more than once.
	Lock(ctx context.Context, id kernel.UUID) (unlock func(), err error)
}
