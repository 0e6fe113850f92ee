package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	// 桶空了
	assert.False(t, tb.Allow())
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	tb.Allow()
	tb.Allow()
	assert.False(t, tb.Allow())

	// 回拨上次补充时间模拟 1 秒流逝，应补回 1 个令牌
	tb.mu.Lock()
	tb.lastRefill = tb.lastRefill.Add(-time.Second)
	tb.mu.Unlock()

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

// 长时间空闲后补充不超过桶容量
func TestTokenBucketRefillCappedAtCapacity(t *testing.T) {
	tb := NewTokenBucket(2, 10)
	tb.mu.Lock()
	tb.lastRefill = tb.lastRefill.Add(-time.Minute)
	tb.mu.Unlock()

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}
