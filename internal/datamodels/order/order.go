package order

import (
	"context"
	"errors"
	"time"
)

// ErrVersionConflict 表示 CAS 更新时版本号已被并发流转推进
var ErrVersionConflict = errors.New("order version conflict")

// 订单状态
const (
	StatusPendente   = "pendente"
	StatusConfirmado = "confirmado"
	StatusEmProducao = "em_producao"
	StatusEnviado    = "enviado"
	StatusEntregue   = "entregue"
	StatusCancelado  = "cancelado"
)

// transitions 状态机邻接表；终态（entregue/cancelado）没有出边
var transitions = map[string][]string{
	StatusPendente:   {StatusConfirmado, StatusCancelado},
	StatusConfirmado: {StatusEmProducao, StatusCancelado},
	StatusEmProducao: {StatusEnviado, StatusCancelado},
	StatusEnviado:    {StatusEntregue, StatusCancelado},
	StatusEntregue:   {},
	StatusCancelado:  {},
}

// StatusValido 校验状态取值是否为已知枚举
func StatusValido(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition 校验 from -> to 是否为合法状态流转
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Medida 下单时客户提供的一项量体尺寸
type Medida struct {
	ID      int64   `gorm:"primaryKey" json:"-"`
	OrderID int64   `gorm:"index;not null" json:"-"`
	Nome    string  `gorm:"size:64;not null" json:"nome"`
	Valor   float64 `gorm:"not null" json:"valor"`
	Unidade string  `gorm:"size:16;not null" json:"unidade"`
}

// StatusEntry 状态历史条目，只追加不修改
type StatusEntry struct {
	ID         int64     `gorm:"primaryKey" json:"-"`
	OrderID    int64     `gorm:"index;not null" json:"-"`
	Status     string    `gorm:"size:32;not null" json:"status"`
	Data       time.Time `gorm:"not null" json:"data"`
	Comentario string    `gorm:"size:256" json:"comentario,omitempty"`
}

// Order 订单模型
type Order struct {
	ID int64 `gorm:"primaryKey" json:"id"`
	// Numero 创建时分配的连续订单号，全局唯一且单调递增
	Numero    int64    `gorm:"uniqueIndex;not null" json:"numero"`
	UserID    int64    `gorm:"index;not null" json:"usuario"`
	ProductID int64    `gorm:"index;not null" json:"produto"`
	Medidas   []Medida `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"medidas"`
	Status    string   `gorm:"size:32;index;not null;default:pendente" json:"status"`
	// PrecoTotal 单位为分，下单时按商品底价固定，后续改价不回溯
	PrecoTotal  int64  `gorm:"not null" json:"precoTotal"`
	Observacoes string `gorm:"size:512" json:"observacoes,omitempty"`
	// DataEntregaPrevista 仅在订单确认时写入
	DataEntregaPrevista *time.Time `json:"dataEntregaPrevista,omitempty"`
	// HistoricoStatus 按时间顺序追加，包含当前状态
	HistoricoStatus []StatusEntry `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"historicoStatus"`
	// Version 乐观锁版本号，状态流转用 CAS 条件更新
	Version   int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Repository 订单仓储接口
type Repository interface {
	// Create 在同一事务内分配 Numero、写入订单/尺寸/首条历史
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	// UpdateStatus 以 fromVersion 为 CAS 条件更新状态并追加历史；
	// 版本不匹配时返回 ErrVersionConflict
	UpdateStatus(ctx context.Context, o *Order, fromVersion int64, entry StatusEntry) error
}
