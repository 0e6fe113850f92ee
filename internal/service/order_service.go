package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
)

var (
	// ErrProdutoIndisponivel 商品已下架，禁止下单
	ErrProdutoIndisponivel = errors.New("produto não encontrado ou indisponível")
	// ErrStatusInvalido 未知的订单状态值
	ErrStatusInvalido = errors.New("status inválido")
	// ErrTransicaoInvalida 状态机不允许的流转
	ErrTransicaoInvalida = errors.New("transição de status inválida")
	// ErrAcessoNegado 请求者既不是订单所有人也不是管理员
	ErrAcessoNegado = errors.New("você não tem permissão para ver este pedido")
)

// transitionRetries 版本冲突时的重试上限
const transitionRetries = 3

// OrderService 订单生命周期：下单、状态流转、查询
type OrderService struct {
	repo        order.Repository
	productRepo product.Repository
	userRepo    user.Repository
	notifier    Notifier
}

func NewOrderService(repo order.Repository, productRepo product.Repository, userRepo user.Repository, notifier Notifier) *OrderService {
	return &OrderService{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Create 下单流程：
// 商品可售校验 -> 尺寸校验 -> 冻结总价 -> 事务内分配订单号并落盘 ->
// 异步投递确认邮件（尽力而为，失败不影响订单）。
func (s *OrderService) Create(ctx context.Context, userID, productID int64, medidas []order.Medida, observacoes string) (*order.Order, error) {
	GetMonitor().RecordOrderRequest()

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Disponivel {
		return nil, ErrProdutoIndisponivel
	}

	if err := ValidateMedidas(p.MedidasNecessarias, medidas); err != nil {
		GetMonitor().RecordValidationRejected()
		return nil, err
	}
	for i := range medidas {
		if medidas[i].Unidade == "" {
			medidas[i].Unidade = "cm"
		}
	}

	now := time.Now()
	o := &order.Order{
		UserID:      userID,
		ProductID:   productID,
		Medidas:     medidas,
		Status:      order.StatusPendente,
		PrecoTotal:  p.PrecoBase, // 总价在下单时冻结，商品后续改价不回溯
		Observacoes: observacoes,
		HistoricoStatus: []order.StatusEntry{
			{Status: order.StatusPendente, Data: now},
		},
	}
	if err := s.repo.Create(ctx, o); err != nil {
		GetMonitor().RecordDBError()
		return nil, err
	}
	GetMonitor().RecordOrderCreated()

	// 确认邮件异步投递；任何失败只记日志和指标
	if s.notifier != nil {
		go func(orderID, userID int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			u, err := s.userRepo.GetByID(ctx, userID)
			if err != nil {
				log.Printf("order %d: lookup user for confirmation email failed: %v", orderID, err)
				GetMonitor().RecordNotifyFailed()
				return
			}
			if err := s.notifier.PublishOrderConfirmation(ctx, o, u); err != nil {
				log.Printf("order %d: publish confirmation email failed: %v", orderID, err)
				GetMonitor().RecordMQError()
				GetMonitor().RecordNotifyFailed()
				return
			}
			GetMonitor().RecordNotifyPublished()
		}(o.ID, userID)
	}

	return o, nil
}

// Transition 执行一次状态流转（仅后台调用）。
// 严格按状态机邻接表校验；confirmado 时计算预计交付日期；
// 更新与历史追加同事务落盘，版本冲突时重读重试。
func (s *OrderService) Transition(ctx context.Context, orderID int64, novoStatus, comentario string) (*order.Order, error) {
	if !order.StatusValido(novoStatus) {
		return nil, fmt.Errorf("%w: %s", ErrStatusInvalido, novoStatus)
	}

	var lastErr error
	for attempt := 0; attempt < transitionRetries; attempt++ {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.CanTransition(o.Status, novoStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrTransicaoInvalida, o.Status, novoStatus)
		}

		now := time.Now()
		if novoStatus == order.StatusConfirmado {
			// 预计交付 = 确认时间 + 商品生产周期；商品已删则确认失败
			p, err := s.productRepo.GetByID(ctx, o.ProductID)
			if err != nil {
				return nil, err
			}
			prevista := now.AddDate(0, 0, p.TempoEstimadoProducao)
			o.DataEntregaPrevista = &prevista
		}

		fromVersion := o.Version
		o.Status = novoStatus
		entry := order.StatusEntry{Status: novoStatus, Data: now, Comentario: comentario}

		err = s.repo.UpdateStatus(ctx, o, fromVersion, entry)
		if err == nil {
			return s.repo.GetByID(ctx, orderID)
		}
		if !errors.Is(err, order.ErrVersionConflict) {
			GetMonitor().RecordDBError()
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetForRequester 按请求者身份取单，非本人且非管理员拒绝
func (s *OrderService) GetForRequester(ctx context.Context, orderID, requesterID int64, requesterRole string) (*order.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requesterRole != user.RoleAdmin && o.UserID != requesterID {
		return nil, ErrAcessoNegado
	}
	return o, nil
}

// ListByUser 查询用户自己的订单，最新在前
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll 后台查询全部订单
func (s *OrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	return s.repo.ListAll(ctx)
}
