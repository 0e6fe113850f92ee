package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).
		Preload("MedidasNecessarias", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	// 空结果序列化为 [] 而不是 null
	list := []*product.Product{}
	if err := r.db.WithContext(ctx).
		Preload("MedidasNecessarias", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) ListAvailable(ctx context.Context) ([]*product.Product, error) {
	list := []*product.Product{}
	if err := r.db.WithContext(ctx).
		Preload("MedidasNecessarias", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("disponivel = ?", true).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) ListByCategoria(ctx context.Context, categoria string) ([]*product.Product, error) {
	list := []*product.Product{}
	if err := r.db.WithContext(ctx).
		Preload("MedidasNecessarias", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("disponivel = ? AND categoria = ?", true, categoria).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// CreateBatch 整批写入同一事务，中途失败不留下半截批次
func (r *productRepo) CreateBatch(ctx context.Context, list []*product.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range list {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update 整体更新：量体尺寸要求按新列表重建。
// Save 会写全部字段，created_at 以库里已有的值为准，
// 请求体反序列化出来的零值时间不能盖掉它
func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current product.Product
		if err := tx.Select("created_at").First(&current, p.ID).Error; err != nil {
			return err
		}
		p.CreatedAt = current.CreatedAt

		if err := tx.Where("product_id = ?", p.ID).
			Delete(&product.MedidaSpec{}).Error; err != nil {
			return err
		}
		for i := range p.MedidasNecessarias {
			p.MedidasNecessarias[i].ID = 0
			p.MedidasNecessarias[i].ProductID = p.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
	})
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).
			Delete(&product.MedidaSpec{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product.Product{}, id).Error
	})
}
