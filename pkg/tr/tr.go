package tr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type txKey struct{}

// WithTx кладёт транзакцию pgx в контекст.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}
