package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"golden-anniversary-server/internal/config"
	"golden-anniversary-server/internal/model"

	"gopkg.in/gomail.v2"
)

// Notifier 在访客提交新留言时提醒管理员
type Notifier interface {
	MessageSubmitted(ctx context.Context, msg model.Message)
}

// Noop 未配置 SMTP 时使用
type Noop struct{}

func (Noop) MessageSubmitted(context.Context, model.Message) {}

// Sender 是 gomail.Dialer 的发送能力
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier 通过 SMTP 异步发送提醒邮件，发送失败只记录日志
type MailNotifier struct {
	sender   Sender
	from     string
	to       string
	adminURL string
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// New 根据配置创建提醒器；smtp.host 为空或没有收件人时返回 Noop。
func New(cfg config.Config, logger *slog.Logger) Notifier {
	to := cfg.SMTP.Notify
	if to == "" {
		to = cfg.Admin.Email
	}
	if cfg.SMTP.Host == "" || to == "" {
		return Noop{}
	}
	from := cfg.SMTP.From
	if from == "" {
		from = cfg.SMTP.Username
	}
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return NewMailNotifier(dialer, from, to, cfg.Server.PublicURL+"/admin/messages", logger)
}

func NewMailNotifier(sender Sender, from, to, adminURL string, logger *slog.Logger) *MailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailNotifier{sender: sender, from: from, to: to, adminURL: adminURL, logger: logger}
}

func (n *MailNotifier) MessageSubmitted(_ context.Context, msg model.Message) {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("Nova mensagem no livro de visitas: %s", msg.Name))
	m.SetBody("text/html", fmt.Sprintf(
		"<p><strong>%s</strong> deixou uma mensagem em %s:</p><blockquote>%s</blockquote><p><a href=\"%s\">Moderar mensagens</a></p>",
		html.EscapeString(msg.Name),
		msg.CreatedAt.Format(time.DateTime),
		html.EscapeString(msg.Message),
		n.adminURL,
	))

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.sender.DialAndSend(m); err != nil {
			n.logger.Warn("new message notification failed", "message_id", msg.ID, "err", err)
		}
	}()
}

// Wait 等待所有已发起的发送结束，用于优雅退出
func (n *MailNotifier) Wait() {
	n.wg.Wait()
}
