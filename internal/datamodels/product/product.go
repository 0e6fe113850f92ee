package product

import (
	"context"
	"time"
)

// 商品分类（钩织服饰）
const (
	CategoriaBlusas   = "blusas"
	CategoriaSaias    = "saias"
	CategoriaShorts   = "shorts"
	CategoriaBiquinis = "biquinis"
)

// Categorias 合法分类集合
var Categorias = []string{CategoriaBlusas, CategoriaSaias, CategoriaShorts, CategoriaBiquinis}

// CategoriaValida 校验分类取值
func CategoriaValida(c string) bool {
	for _, v := range Categorias {
		if v == c {
			return true
		}
	}
	return false
}

// MedidaSpec 商品要求客户提供的一项量体尺寸
type MedidaSpec struct {
	ID        int64  `gorm:"primaryKey" json:"-"`
	ProductID int64  `gorm:"index;not null" json:"-"`
	Nome      string `gorm:"size:64;not null" json:"nome"`
	Descricao string `gorm:"size:256;not null" json:"descricao"`
	Unidade   string `gorm:"size:16;not null" json:"unidade"`
}

// Product 商品模型
type Product struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Nome      string `gorm:"size:128;not null" json:"nome"`
	Descricao string `gorm:"size:512;not null" json:"descricao"`
	Categoria string `gorm:"size:32;index;not null" json:"categoria"`
	// PrecoBase 单位为分（centavos）
	PrecoBase int64    `gorm:"not null" json:"precoBase"`
	Imagens   []string `gorm:"serializer:json" json:"imagens"`
	// Disponivel 下单前校验；默认可售
	Disponivel bool `gorm:"not null;default:true" json:"disponivel"`
	// MedidasNecessarias 按录入顺序返回
	MedidasNecessarias []MedidaSpec `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"medidasNecessarias"`
	// TempoEstimadoProducao 单位为天，确认订单时用于计算预计交付日期
	TempoEstimadoProducao int       `gorm:"not null" json:"tempoEstimadoProducao"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Normalize 构造期兜底：量体尺寸未填单位时默认 cm
func (p *Product) Normalize() {
	for i := range p.MedidasNecessarias {
		if p.MedidasNecessarias[i].Unidade == "" {
			p.MedidasNecessarias[i].Unidade = "cm"
		}
	}
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListAvailable(ctx context.Context) ([]*Product, error)
	ListByCategoria(ctx context.Context, categoria string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	// CreateBatch 在同一事务内写入整批，任意一项失败全部回滚
	CreateBatch(ctx context.Context, list []*Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
