package service

import (
	"sync"
	"time"
)

// Monitor 监控服务，用于统计错误和业务指标
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	RedisErrors int64
	MQErrors    int64
	DBErrors    int64

	// 业务统计
	OrderRequests      int64
	OrderCreated       int64
	ValidationRejected int64
	NotifyPublished    int64
	NotifyFailed       int64
	WorkerProcessed    int64
	WorkerFailed       int64

	// 时间统计
	LastDBError   time.Time
	LastMQError   time.Time
	LastOrderTime time.Time
	LastEmailTime time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordRedisError 记录Redis错误
func (m *Monitor) RecordRedisError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RedisErrors++
}

// RecordMQError 记录MQ错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordOrderRequest 记录下单请求
func (m *Monitor) RecordOrderRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests++
	m.LastOrderTime = time.Now()
}

// RecordOrderCreated 记录下单成功
func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderCreated++
}

// RecordValidationRejected 记录尺寸/字段校验拒绝
func (m *Monitor) RecordValidationRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationRejected++
}

// RecordNotifyPublished 记录确认邮件消息入队成功
func (m *Monitor) RecordNotifyPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyPublished++
}

// RecordNotifyFailed 记录确认邮件消息入队失败
func (m *Monitor) RecordNotifyFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyFailed++
}

// RecordWorkerProcessed 记录邮件worker处理成功
func (m *Monitor) RecordWorkerProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerProcessed++
	m.LastEmailTime = time.Now()
}

// RecordWorkerFailed 记录邮件worker处理失败
func (m *Monitor) RecordWorkerFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerFailed++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	createRate := float64(0)
	if m.OrderRequests > 0 {
		createRate = float64(m.OrderCreated) / float64(m.OrderRequests) * 100
	}

	workerRate := float64(0)
	totalWorker := m.WorkerProcessed + m.WorkerFailed
	if totalWorker > 0 {
		workerRate = float64(m.WorkerProcessed) / float64(totalWorker) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"redis": m.RedisErrors,
			"mq":    m.MQErrors,
			"db":    m.DBErrors,
		},
		"orders": map[string]interface{}{
			"requests":            m.OrderRequests,
			"created":             m.OrderCreated,
			"created_rate":        createRate,
			"validation_rejected": m.ValidationRejected,
		},
		"email": map[string]interface{}{
			"published":        m.NotifyPublished,
			"publish_failed":   m.NotifyFailed,
			"worker_processed": m.WorkerProcessed,
			"worker_failed":    m.WorkerFailed,
			"worker_rate":      workerRate,
		},
		"last_events": map[string]interface{}{
			"db_error":   m.LastDBError,
			"mq_error":   m.LastMQError,
			"last_order": m.LastOrderTime,
			"last_email": m.LastEmailTime,
		},
	}
}

// Reset 重置统计（用于测试或定期清理）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RedisErrors = 0
	m.MQErrors = 0
	m.DBErrors = 0
	m.OrderRequests = 0
	m.OrderCreated = 0
	m.ValidationRejected = 0
	m.NotifyPublished = 0
	m.NotifyFailed = 0
	m.WorkerProcessed = 0
	m.WorkerFailed = 0
}
