package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
	"github.com/rafaelscdev/crocheDaRuiva/internal/repository/mysql"
)

func setupProducts(t *testing.T) *ProductService {
	t.Helper()
	db := newTestDB(t)
	return NewProductService(mysql.NewProductRepository(db))
}

func novaSaia() *product.Product {
	return &product.Product{
		Nome:      "Saia Concha",
		Descricao: "Saia de crochê em ponto concha, feita sob medida",
		Categoria: product.CategoriaSaias,
		PrecoBase: 12000,
		MedidasNecessarias: []product.MedidaSpec{
			{Nome: "cintura", Descricao: "Contorno da cintura"},
			{Nome: "comprimento", Descricao: "Da cintura até a barra"},
		},
		TempoEstimadoProducao: 7,
	}
}

func TestCreateProduct(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	require.NoError(t, svc.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saia Concha", got.Nome)
	assert.True(t, got.Disponivel)
	require.Len(t, got.MedidasNecessarias, 2)
	// 未填单位时默认 cm
	assert.Equal(t, "cm", got.MedidasNecessarias[0].Unidade)
	assert.Equal(t, "cintura", got.MedidasNecessarias[0].Nome)
}

func TestCreateProductValidation(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	casos := []struct {
		nome    string
		mutacao func(p *product.Product)
	}{
		{"nome curto", func(p *product.Product) { p.Nome = "Sa" }},
		{"descricao curta", func(p *product.Product) { p.Descricao = "curta" }},
		{"preco zero", func(p *product.Product) { p.PrecoBase = 0 }},
		{"preco negativo", func(p *product.Product) { p.PrecoBase = -100 }},
		{"categoria invalida", func(p *product.Product) { p.Categoria = "vestidos" }},
		{"sem tempo de producao", func(p *product.Product) { p.TempoEstimadoProducao = 0 }},
		{"sem medidas", func(p *product.Product) { p.MedidasNecessarias = nil }},
		{"medida sem descricao", func(p *product.Product) { p.MedidasNecessarias[0].Descricao = "" }},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			p := novaSaia()
			c.mutacao(p)
			assert.ErrorIs(t, svc.Create(ctx, p), ErrValidacao)
		})
	}
}

func TestCreateProductNormalizesCategoria(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	p.Categoria = "Saias"
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, product.CategoriaSaias, p.Categoria)
}

func TestCreateBatch(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p1 := novaSaia()
	p2 := novaSaia()
	p2.Nome = "Saia Franja"
	require.NoError(t, svc.CreateBatch(ctx, []*product.Product{p1, p2}))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// 批量里任意一项不合法，整批拒绝且不落库
func TestCreateBatchRejectsAllOnInvalidItem(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p1 := novaSaia()
	p2 := novaSaia()
	p2.PrecoBase = 0
	assert.ErrorIs(t, svc.CreateBatch(ctx, []*product.Product{p1, p2}), ErrValidacao)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// 校验都通过但库里写入中途失败时，整批回滚
func TestCreateBatchRollsBackOnDBFailure(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	existente := novaSaia()
	require.NoError(t, svc.Create(ctx, existente))

	ok := novaSaia()
	ok.Nome = "Saia Franja"
	conflito := novaSaia()
	conflito.ID = existente.ID // 主键冲突，第二项写入失败
	require.Error(t, svc.CreateBatch(ctx, []*product.Product{ok, conflito}))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListAvailableFiltersUnavailable(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p1 := novaSaia()
	require.NoError(t, svc.Create(ctx, p1))
	p2 := novaSaia()
	p2.Nome = "Saia Franja"
	require.NoError(t, svc.Create(ctx, p2))

	_, err := svc.ToggleDisponibilidade(ctx, p2.ID)
	require.NoError(t, err)

	disponiveis, err := svc.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, disponiveis, 1)
	assert.Equal(t, p1.ID, disponiveis[0].ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListByCategoria(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	saia := novaSaia()
	require.NoError(t, svc.Create(ctx, saia))

	blusa := novaSaia()
	blusa.Nome = "Blusa Maré"
	blusa.Categoria = product.CategoriaBlusas
	require.NoError(t, svc.Create(ctx, blusa))

	saias, err := svc.ListByCategoria(ctx, "SAIAS")
	require.NoError(t, err)
	require.Len(t, saias, 1)
	assert.Equal(t, saia.ID, saias[0].ID)

	_, err = svc.ListByCategoria(ctx, "vestidos")
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestToggleDisponibilidade(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	require.NoError(t, svc.Create(ctx, p))

	got, err := svc.ToggleDisponibilidade(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Disponivel)

	got, err = svc.ToggleDisponibilidade(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Disponivel)
}

// 更新会整体替换量体尺寸清单
func TestUpdateReplacesMedidas(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	require.NoError(t, svc.Create(ctx, p))

	p.Nome = "Saia Concha Longa"
	p.MedidasNecessarias = []product.MedidaSpec{
		{Nome: "quadril", Descricao: "Contorno do quadril"},
	}
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saia Concha Longa", got.Nome)
	require.Len(t, got.MedidasNecessarias, 1)
	assert.Equal(t, "quadril", got.MedidasNecessarias[0].Nome)
}

// PUT 的请求体里没有 created_at，整体更新不能把它清零
func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	require.NoError(t, svc.Create(ctx, p))
	criado, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, criado.CreatedAt.IsZero())

	// 模拟请求体反序列化出来的结构：只有 ID 和业务字段，时间戳为零值
	upd := novaSaia()
	upd.ID = p.ID
	upd.Nome = "Saia Concha Longa"
	require.NoError(t, svc.Update(ctx, upd))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, criado.CreatedAt, got.CreatedAt, time.Second)
	// 响应体里回显的结构也带上保留的时间
	assert.False(t, upd.CreatedAt.IsZero())
}

func TestDeleteProduct(t *testing.T) {
	svc := setupProducts(t)
	ctx := context.Background()

	p := novaSaia()
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err := svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
