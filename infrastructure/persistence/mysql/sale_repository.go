package mysql

import (
	"context"
	"errors"

	"aquadash/domain/sale"
	"aquadash/infrastructure/persistence"
	"aquadash/infrastructure/persistence/mysql/po"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// SaleRepository MySQL/GORM implementation of sale repository
// Sales are immutable, Save only inserts
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *SaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	salePO, err := po.FromSaleDomain(s)
	if err != nil {
		return err
	}
	if err := r.getDB(ctx).Create(salePO).Error; err != nil {
		if isDuplicateKey(err) {
			return sale.NewSaleAlreadyExistsError(s.OrderID())
		}
		return err
	}
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	return r.findOne(ctx, id, "id = ?", id)
}

func (r *SaleRepository) FindByOrderID(ctx context.Context, orderID string) (*sale.Sale, error) {
	return r.findOne(ctx, "order "+orderID, "order_id = ?", orderID)
}

func (r *SaleRepository) findOne(ctx context.Context, key string, query string, args ...interface{}) (*sale.Sale, error) {
	var salePO po.SalePO
	if err := r.getDB(ctx).Where(query, args...).First(&salePO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.NewSaleNotFoundError(key)
		}
		return nil, err
	}
	return salePO.ToDomain()
}

func (r *SaleRepository) FindByClientID(ctx context.Context, clientID string) ([]*sale.Sale, error) {
	var salePOs []po.SalePO
	if err := r.getDB(ctx).
		Where("client_id = ?", clientID).
		Order("converted_at DESC, id DESC").
		Find(&salePOs).Error; err != nil {
		return nil, err
	}

	sales := make([]*sale.Sale, 0, len(salePOs))
	for i := range salePOs {
		s, err := salePOs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

var _ sale.Repository = (*SaleRepository)(nil)
