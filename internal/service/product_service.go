package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
)

type ProductService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

// validateProduct 商品字段校验，错误信息对齐前端提示
func validateProduct(p *product.Product) error {
	if len(strings.TrimSpace(p.Nome)) < 3 {
		return fmt.Errorf("%w: nome do produto deve ter pelo menos 3 caracteres", ErrValidacao)
	}
	if len(strings.TrimSpace(p.Descricao)) < 10 {
		return fmt.Errorf("%w: descrição deve ter pelo menos 10 caracteres", ErrValidacao)
	}
	if p.PrecoBase <= 0 {
		return fmt.Errorf("%w: preço base deve ser um número positivo", ErrValidacao)
	}
	p.Categoria = strings.ToLower(p.Categoria)
	if !product.CategoriaValida(p.Categoria) {
		return fmt.Errorf("%w: categoria inválida (%s)", ErrValidacao, strings.Join(product.Categorias, ", "))
	}
	if p.TempoEstimadoProducao <= 0 {
		return fmt.Errorf("%w: informe o tempo estimado de produção", ErrValidacao)
	}
	if len(p.MedidasNecessarias) == 0 {
		return fmt.Errorf("%w: deve especificar pelo menos uma medida necessária", ErrValidacao)
	}
	for _, m := range p.MedidasNecessarias {
		if m.Nome == "" || m.Descricao == "" {
			return fmt.Errorf("%w: cada medida deve ter nome e descrição", ErrValidacao)
		}
	}
	return nil
}

func (s *ProductService) ListAvailable(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *ProductService) ListByCategoria(ctx context.Context, categoria string) ([]*product.Product, error) {
	categoria = strings.ToLower(categoria)
	if !product.CategoriaValida(categoria) {
		return nil, fmt.Errorf("%w: categoria inválida (%s)", ErrValidacao, strings.Join(product.Categorias, ", "))
	}
	return s.repo.ListByCategoria(ctx, categoria)
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	p.Normalize()
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

// CreateBatch 批量创建（路由层接受单对象或数组），逐个校验后整批一个事务写入
func (s *ProductService) CreateBatch(ctx context.Context, list []*product.Product) error {
	for _, p := range list {
		p.Normalize()
		if err := validateProduct(p); err != nil {
			return err
		}
	}
	return s.repo.CreateBatch(ctx, list)
}

func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	p.Normalize()
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ToggleDisponibilidade 上/下架开关
func (s *ProductService) ToggleDisponibilidade(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Disponivel = !p.Disponivel
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
