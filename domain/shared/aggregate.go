package shared

// AggregateRoot 聚合根接口
// 聚合根是DDD的核心概念，它是聚合的入口点，维护聚合的一致性边界
// 特性：
// 1. 有全局唯一标识
// 2. 维护聚合内部的不变量
// 3. 所有修改必须通过聚合根进行
// 4. 负责记录领域事件
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	// UoW 在事务提交前调用，将事件写入 outbox
	PullEvents() []DomainEvent
}

// Entity 实体接口
// 实体通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity interface {
	ID() string
}
