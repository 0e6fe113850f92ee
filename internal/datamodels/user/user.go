package user

import (
	"context"
	"time"
)

// 用户角色
const (
	RoleCliente = "cliente"
	RoleAdmin   = "admin"
)

// Endereco 收货地址，内嵌在用户表中
type Endereco struct {
	Rua         string `gorm:"size:128" json:"rua"`
	Numero      string `gorm:"size:16" json:"numero"`
	Complemento string `gorm:"size:64" json:"complemento,omitempty"`
	Bairro      string `gorm:"size:64" json:"bairro"`
	Cidade      string `gorm:"size:64" json:"cidade"`
	Estado      string `gorm:"size:32" json:"estado"`
	CEP         string `gorm:"size:16" json:"cep"`
}

// User 用户模型
type User struct {
	ID int64 `gorm:"primaryKey" json:"id"`
	// Codigo 注册时分配的连续编号，永不复用
	Codigo    int64    `gorm:"uniqueIndex;not null" json:"codigo"`
	Nome      string   `gorm:"size:128;not null" json:"nome"`
	Email     string   `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Senha     string   `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Role      string   `gorm:"size:16;index;not null;default:cliente" json:"role"`
	Telefone  string   `gorm:"size:32;not null" json:"telefone"`
	Endereco  Endereco `gorm:"embedded;embeddedPrefix:endereco_" json:"endereco"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Repository 用户仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Create 在同一事务内分配 Codigo 并写入用户
	Create(ctx context.Context, u *User) error
	ListByRole(ctx context.Context, role string) ([]*User, error)
}
