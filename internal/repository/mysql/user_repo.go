package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/counter"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
)

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Create 分配 Codigo 并写入用户，两步在同一事务内提交
func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		codigo, err := NextSeq(tx, counter.SeqUsuarios)
		if err != nil {
			return err
		}
		u.Codigo = codigo
		return tx.Create(u).Error
	})
}

func (r *userRepo) ListByRole(ctx context.Context, role string) ([]*user.User, error) {
	// 空结果序列化为 [] 而不是 null
	list := []*user.User{}
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("codigo").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
