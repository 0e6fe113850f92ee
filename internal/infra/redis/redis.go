package redis

import (
	"log"
	"sync"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
)

var (
	client radix.Client
	once   sync.Once
)

// Init 初始化 Redis 连接池
func Init(cfg *config.RedisConfig) radix.Client {
	once.Do(func() {
		pool, err := radix.NewPool("tcp", cfg.Addr, 10)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		client = pool
	})
	return client
}

// Client 获取 Redis 客户端
func Client() radix.Client {
	return client
}

// AcquireOnce 用 SET NX 抢占一次性标记，返回是否抢到。
// 邮件 worker 用它做按消息 ID 的幂等去重。
func AcquireOnce(c radix.Client, key string, ttlSeconds int64) (bool, error) {
	var resp string
	if err := c.Do(radix.FlatCmd(&resp, "SET", key, "1", "NX", "EX", ttlSeconds)); err != nil {
		return false, err
	}
	return resp != "", nil
}

// Release 释放标记，发送失败后调用让重投递能再次抢占
func Release(c radix.Client, key string) error {
	return c.Do(radix.Cmd(nil, "DEL", key))
}
