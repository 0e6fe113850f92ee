package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/counter"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Medidas", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("HistoricoStatus", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// Create 分配 Numero 并连同尺寸、首条历史一次性写入
func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := NextSeq(tx, counter.SeqPedidos)
		if err != nil {
			return err
		}
		o.Numero = numero
		return tx.Create(o).Error
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := preloadOrder(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	// 空结果序列化为 [] 而不是 null
	list := []*order.Order{}
	if err := preloadOrder(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]*order.Order, error) {
	list := []*order.Order{}
	if err := preloadOrder(r.db.WithContext(ctx)).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus 状态、交付日期、版本号与历史追加在一个事务内落盘；
// 更新以 fromVersion 为条件，抢不到版本说明有并发流转，返回冲突
func (r *orderRepo) UpdateStatus(ctx context.Context, o *order.Order, fromVersion int64, entry order.StatusEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, fromVersion).
			Updates(map[string]interface{}{
				"status":                o.Status,
				"data_entrega_prevista": o.DataEntregaPrevista,
				"version":               fromVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return order.ErrVersionConflict
		}

		entry.OrderID = o.ID
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		o.Version = fromVersion + 1
		return nil
	})
}
