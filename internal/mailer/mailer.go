// Package mailer delivers rendered outreach emails through an SMTP relay.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/events"
	"github.com/joseph-ayodele/poster-outreach/internal/metrics"
)

// Config holds the relay endpoint and credentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// BatchResult aggregates a SendBatch run. Errors lists failed recipients in send order.
type BatchResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// Sender opens one SMTP session per message.
type Sender struct {
	cfg       Config
	dial      Dialer
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewSender(cfg Config, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Sender{
		cfg:       cfg,
		dial:      DialSMTP,
		publisher: events.NewLogPublisher(events.DefaultPrefix, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// WithDialer replaces the network dialer.
func (s *Sender) WithDialer(d Dialer) *Sender {
	s.dial = d
	return s
}

// WithPublisher emits an EmailSent event after every attempt.
func (s *Sender) WithPublisher(p events.Publisher) *Sender {
	s.publisher = p
	return s
}

// WithClock overrides the Date header source.
func (s *Sender) WithClock(now func() time.Time) *Sender {
	s.now = now
	return s
}

// Send delivers msg and reports whether the relay accepted it. The failing
// stage and cause are logged but not returned.
func (s *Sender) Send(ctx context.Context, msg entity.RenderedEmail) bool {
	start := time.Now()
	err := s.deliver(ctx, msg)
	ok := err == nil

	var stage string
	var de *DeliveryError
	if errors.As(err, &de) {
		stage = de.Stage
	}
	if ok {
		s.logger.Info("mailer.send.ok", "to", msg.To, "elapsed_ms", time.Since(start).Milliseconds())
	} else {
		s.logger.Error("mailer.send.failed",
			"to", msg.To,
			"stage", stage,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	metrics.EmailsTotal.WithLabelValues(metrics.Result(ok)).Inc()

	evt := events.EmailSent{To: msg.To, Subject: msg.Subject, OK: ok, Stage: stage, At: s.now().UTC()}
	if perr := s.publisher.Publish(ctx, events.SubjectEmailSent, evt); perr != nil {
		s.logger.Warn("mailer.publish.failed", "to", msg.To, "error", perr)
	}
	return ok
}

// SendBatch sends each message in order. A failure never stops the batch.
func (s *Sender) SendBatch(ctx context.Context, msgs []entity.RenderedEmail) BatchResult {
	res := BatchResult{Errors: []string{}}
	for _, m := range msgs {
		if s.Send(ctx, m) {
			res.Sent++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, m.To)
	}
	s.logger.Info("mailer.batch.done", "sent", res.Sent, "failed", res.Failed)
	return res
}

func (s *Sender) deliver(ctx context.Context, msg entity.RenderedEmail) error {
	body, err := buildMessage(s.cfg.From, msg, s.now())
	if err != nil {
		return &DeliveryError{Stage: StageData, Err: err}
	}

	c, err := s.dial(ctx, s.cfg.Host, s.cfg.Port, s.cfg.Timeout)
	if err != nil {
		return &DeliveryError{Stage: StageConnect, Err: err}
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return &DeliveryError{Stage: StageStartTLS, Err: err}
	}
	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return &DeliveryError{Stage: StageAuth, Err: err}
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return &DeliveryError{Stage: StageEnvelope, Err: err}
	}
	if err := c.Rcpt(msg.To); err != nil {
		return &DeliveryError{Stage: StageEnvelope, Err: err}
	}
	w, err := c.Data()
	if err != nil {
		return &DeliveryError{Stage: StageData, Err: err}
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return &DeliveryError{Stage: StageData, Err: err}
	}
	if err := w.Close(); err != nil {
		return &DeliveryError{Stage: StageData, Err: err}
	}

	// The relay accepted the message once DATA closed; a failed QUIT does not undo that.
	if err := c.Quit(); err != nil {
		s.logger.Warn("mailer.quit.failed", "to", msg.To, "error", &DeliveryError{Stage: StageQuit, Err: err})
	}
	return nil
}
