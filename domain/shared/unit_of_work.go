package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}

// Locker 按键串行化写操作（如同一订单的并发收款）。
// Lock 阻塞直到获得锁或 ctx 结束；返回的 unlock 必须被调用。
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
