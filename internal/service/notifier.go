package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
	"github.com/rafaelscdev/crocheDaRuiva/internal/infra/mq"
)

// EmailQueue 订单确认邮件队列
const EmailQueue = "pedido_email_queue"

// OrderEmailMessage 投递给邮件 worker 的消息体。
// MessageID 供 worker 幂等去重，重复投递不会重复发信。
type OrderEmailMessage struct {
	MessageID  string `json:"message_id"`
	Numero     int64  `json:"numero"`
	Email      string `json:"email"`
	Nome       string `json:"nome"`
	Status     string `json:"status"`
	PrecoTotal int64  `json:"preco_total"` // 分
}

// Notifier 订单创建后的确认通知，失败只记录不回滚订单
type Notifier interface {
	PublishOrderConfirmation(ctx context.Context, o *order.Order, u *user.User) error
}

// MQNotifier 把确认邮件消息写入 RabbitMQ
type MQNotifier struct {
	conn *amqp.Connection
}

func NewMQNotifier(conn *amqp.Connection) *MQNotifier {
	return &MQNotifier{conn: conn}
}

func (n *MQNotifier) PublishOrderConfirmation(ctx context.Context, o *order.Order, u *user.User) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err = mq.DeclareDurableQueue(ch, EmailQueue); err != nil {
		return err
	}

	body, err := json.Marshal(&OrderEmailMessage{
		MessageID:  uuid.NewString(),
		Numero:     o.Numero,
		Email:      u.Email,
		Nome:       u.Nome,
		Status:     o.Status,
		PrecoTotal: o.PrecoTotal,
	})
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		EmailQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
