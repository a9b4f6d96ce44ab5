package shared

import "context"

// TxManager runs one unit of work inside a storage transaction. Repository
// calls made with the context passed to fn are committed together; when fn
// returns an error nothing the unit wrote becomes visible.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
