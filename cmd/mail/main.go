package main

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/mailqueue"
	"github.com/wneessen/go-mail"
)

type mailKind struct {
	template string
	subject  string
}

var mailKinds = map[string]mailKind{
	domain.MailCreateUser:    {"new_account_email.html", "Skill Tracker - your account"},
	domain.MailResetPassword: {"reset_password_otp_email.html", "Skill Tracker - reset your password"},
	domain.MailSkillDecision: {"skill_decision_email.html", "Skill Tracker - your skill was reviewed"},
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		return
	}

	// parse every template up front so a broken file fails at boot, not per message
	templates := make(map[string]*template.Template, len(mailKinds))
	for kind, mk := range mailKinds {
		tmpl, err := template.ParseFiles(filepath.Join(cfg.Email.TemplateDir, mk.template))
		if err != nil {
			logger.Error("cannot parse mail template", slog.String("template", mk.template), slog.String("error", err.Error()))
			return
		}
		templates[kind] = tmpl
	}

	/**********************************************
	 * SMTP client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second),
	)
	if err != nil {
		logger.Error("cannot create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("cannot reach mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("cannot connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("cannot open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := mailqueue.DeclareQueue(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("cannot declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // let the broker name the consumer
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("cannot consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed")
					return
				}
				handleDelivery(logger, cfg, client, templates, msg)
			}
		}
	}()

	logger.Info("waiting for messages (CTRL+C to quit)")
	<-sigChan

	logger.Info("stopping mail worker")
	cancel()
	wg.Wait()
	logger.Info("mail worker stopped")
}

// handleDelivery drops malformed messages and requeues the ones that failed to send.
func handleDelivery(logger *slog.Logger, cfg *config.Config, client *mail.Client, templates map[string]*template.Template, msg amqp.Delivery) {
	envelope, err := mailqueue.Decode(msg.Body)
	if err != nil {
		logger.Error("cannot decode mail message", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	logger.Info("mail message received", slog.String("type", envelope.Type), slog.String("to", envelope.To))

	tmpl, ok := templates[envelope.Type]
	if !ok {
		logger.Error("unsupported mail type", slog.String("type", envelope.Type))
		_ = msg.Nack(false, false)
		return
	}

	data, err := envelope.TemplateData()
	if err != nil {
		logger.Error("cannot decode mail payload", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		logger.Error("cannot set sender", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(envelope.To); err != nil {
		logger.Error("cannot set recipient", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
		logger.Error("cannot render mail body", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(mailKinds[envelope.Type].subject)

	if err := client.DialAndSend(m); err != nil {
		logger.Error("cannot send mail", slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
