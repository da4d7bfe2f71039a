// Package contextx 提供 context 级别的事务传递，使多个仓储共享同一个数据库事务
package contextx

import "context"

type txKey struct{}

// WithTx 将事务句柄写入 context
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx 从 context 中取出事务句柄，不存在时返回 nil
func GetTx(ctx context.Context) any {
	return ctx.Value(txKey{})
}
