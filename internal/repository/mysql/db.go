package mysql

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/counter"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}

		if err = Migrate(db); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
	})
	return db
}

// Migrate 迁移全部表结构；测试里也用它初始化内存库
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&product.MedidaSpec{},
		&order.Order{},
		&order.Medida{},
		&order.StatusEntry{},
		&counter.Counter{},
	)
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
