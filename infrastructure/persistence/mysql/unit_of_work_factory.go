package mysql

import (
	"aquadash/domain/shared"
	"aquadash/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory one UnitOfWork per use case invocation
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
	publisher   shared.DomainEventPublisher
}

// NewUnitOfWorkFactory publisher may be nil
func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config, publisher shared.DomainEventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
		publisher:   publisher,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	uow.SetPublisher(f.publisher)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
