package mysql

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/counter"
)

func newCounterDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return db
}

func TestNextSeqStartsAtOneAndIncrements(t *testing.T) {
	db := newCounterDB(t)

	for want := int64(1); want <= 3; want++ {
		var got int64
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = NextSeq(tx, counter.SeqPedidos)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// 不同序列互不影响
func TestNextSeqIndependentSequences(t *testing.T) {
	db := newCounterDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := NextSeq(tx, counter.SeqUsuarios)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = NextSeq(tx, counter.SeqPedidos)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)
}

// 回滚的事务不消耗编号
func TestNextSeqRollbackDoesNotAdvance(t *testing.T) {
	db := newCounterDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := NextSeq(tx, counter.SeqPedidos); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	var got int64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = NextSeq(tx, counter.SeqPedidos)
		return err
	}))
	assert.Equal(t, int64(1), got)
}

func TestNextSeqConcurrentDistinct(t *testing.T) {
	db := newCounterDB(t)

	const n = 30
	results := make(chan int64, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				seq, err := NextSeq(tx, counter.SeqUsuarios)
				if err != nil {
					return err
				}
				results <- seq
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(results)
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]bool, n)
	var max int64
	for seq := range results {
		assert.False(t, seen[seq], "número repetido: %d", seq)
		seen[seq] = true
		if seq > max {
			max = seq
		}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, int64(n), max)
}
