package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	radix "github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
	"github.com/rafaelscdev/crocheDaRuiva/internal/infra/mq"
	"github.com/rafaelscdev/crocheDaRuiva/internal/infra/redis"
	"github.com/rafaelscdev/crocheDaRuiva/internal/service"
)

const (
	// redisEmailSentKey 按消息ID去重，重复投递不会重复发信
	redisEmailSentKey = "email:sent:%s"
	sentMarkExpireSec = 86400 // 24小时
)

func main() {
	cfg := config.Load()

	mqConn := mq.Init(&cfg.RabbitMQ)
	redisClient := redis.Init(&cfg.Redis)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	if err = mq.DeclareDurableQueue(ch, service.EmailQueue); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false），发信成功才 ack
	msgs, err := ch.Consume(service.EmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	log.Println("email worker started, waiting for messages...")

	for d := range msgs {
		var m service.OrderEmailMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			log.Printf("invalid message: %v", err)
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}
		handleMessage(&cfg.SMTP, redisClient, &m, d)
	}
}

func handleMessage(smtpCfg *config.SMTPConfig, redisClient radix.Client, m *service.OrderEmailMessage, d amqp.Delivery) {
	// 幂等：抢占发送标记，抢不到说明已经发过
	key := fmt.Sprintf(redisEmailSentKey, m.MessageID)
	acquired, err := redis.AcquireOnce(redisClient, key, sentMarkExpireSec)
	if err != nil {
		log.Printf("failed to check sent mark: %v", err)
		service.GetMonitor().RecordRedisError()
		_ = d.Nack(false, true)
		return
	}
	if !acquired {
		log.Printf("message %s already sent, skipping", m.MessageID)
		_ = d.Ack(false)
		return
	}

	if err := sendConfirmationEmail(smtpCfg, m); err != nil {
		log.Printf("send confirmation email for order %d failed: %v", m.Numero, err)
		service.GetMonitor().RecordWorkerFailed()
		// 释放发送标记，让重试能再次抢占
		_ = redis.Release(redisClient, key)
		_ = d.Nack(false, true)
		return
	}

	log.Printf("confirmation email sent, order=%d to=%s", m.Numero, m.Email)
	service.GetMonitor().RecordWorkerProcessed()

	if err := d.Ack(false); err != nil {
		log.Printf("failed to ack message: %v", err)
	}
}

func sendConfirmationEmail(cfg *config.SMTPConfig, m *service.OrderEmailMessage) error {
	subject := fmt.Sprintf("Pedido #%d Recebido", m.Numero)
	body := fmt.Sprintf(`<h1>Obrigado pelo seu pedido!</h1>
<p>Olá %s,</p>
<p>Seu pedido foi recebido e está sendo processado.</p>
<p>Número do pedido: #%d</p>
<p>Status: %s</p>
<p>Valor total: R$ %.2f</p>
<p>Em breve entraremos em contato para confirmar os detalhes.</p>
<p>Atenciosamente,<br>Equipe Crochê da Ruiva</p>`,
		m.Nome, m.Numero, m.Status, float64(m.PrecoTotal)/100)

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", m.Email)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	var a smtp.Auth
	if cfg.User != "" {
		a = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return smtp.SendMail(addr, a, envelopeFrom(cfg), []string{m.Email}, []byte(sb.String()))
}

// envelopeFrom 从 "Nome <email>" 格式里取信封发件人
func envelopeFrom(cfg *config.SMTPConfig) string {
	from := cfg.From
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	if cfg.User != "" {
		return cfg.User
	}
	return from
}
