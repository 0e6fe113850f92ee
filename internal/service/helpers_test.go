package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
	"github.com/rafaelscdev/crocheDaRuiva/internal/repository/mysql"
)

// newTestDB 内存 SQLite；限制单连接，避免每个连接各拿一份 :memory: 库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.Migrate(db))
	return db
}

func seedUser(t *testing.T, repo user.Repository, nome, email string) *user.User {
	t.Helper()
	u := &user.User{
		Nome:     nome,
		Email:    email,
		Senha:    "x",
		Role:     user.RoleCliente,
		Telefone: "11999990000",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedBlusa(t *testing.T, repo product.Repository) *product.Product {
	t.Helper()
	p := &product.Product{
		Nome:       "Blusa Maré",
		Descricao:  "Blusa de crochê sob medida",
		Categoria:  product.CategoriaBlusas,
		PrecoBase:  5000,
		Imagens:    []string{"/img/blusa-1.jpg"},
		Disponivel: true,
		MedidasNecessarias: []product.MedidaSpec{
			{Nome: "busto", Descricao: "contorno do busto", Unidade: "cm"},
			{Nome: "comprimento", Descricao: "do ombro até a barra", Unidade: "cm"},
		},
		TempoEstimadoProducao: 5,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// stubNotifier 记录投递；邮件是异步的，用 channel 等待
type stubNotifier struct {
	published chan int64
	fail      bool
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{published: make(chan int64, 16)}
}

func (n *stubNotifier) PublishOrderConfirmation(ctx context.Context, o *order.Order, u *user.User) error {
	if n.fail {
		return context.DeadlineExceeded
	}
	n.published <- o.Numero
	return nil
}
