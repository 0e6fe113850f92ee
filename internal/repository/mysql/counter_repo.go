package mysql

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/counter"
)

// NextSeq 返回 name 序列的下一个编号。
// 必须在写入实体的同一事务内调用：UPDATE 拿到的行锁持有到事务提交，
// 并发分配会在这一行上串行排队，保证编号两两不同且单调递增。
func NextSeq(tx *gorm.DB, name string) (int64, error) {
	// 序列行不存在时先补一行，已存在则忽略
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter.Counter{Name: name, Value: 0}).Error; err != nil {
		return 0, err
	}

	// 单条原子自增，避免读出最大值再加一的竞态
	if err := tx.Model(&counter.Counter{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
		return 0, err
	}

	var c counter.Counter
	if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
		return 0, err
	}
	return c.Value, nil
}
