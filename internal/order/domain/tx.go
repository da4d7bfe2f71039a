package domain

import "context"

// TxManager 事务边界抽象
// fn 收到的 ctx 携带事务句柄，同一事务内的仓储调用共享该句柄；
// fn 返回错误时整个事务回滚
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
