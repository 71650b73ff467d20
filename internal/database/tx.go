package database

import (
	"context"
	"errors"
	"fmt"
)

// WithTx 在單一交易中執行 fn：fn 回傳錯誤或 panic 時 rollback，否則 commit。
// rollback 本身失敗時以 errors.Join 保留原始錯誤，讓呼叫端仍可用 errors.Is/As 判斷。
func WithTx(ctx context.Context, db DB, fn func(q Querier) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
