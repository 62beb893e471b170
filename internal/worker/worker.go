package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/pkg/queue"
)

// Sender delivers a rendered email. The verify URL rides along so dev-mode
// senders can surface it without parsing the body.
type Sender interface {
	Send(to, subject, htmlBody, verifyURL string) error
}

// LogStore updates email log rows with the delivery outcome.
type LogStore interface {
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// EmailProcessor delivers queued confirmation emails: dequeue, send via SMTP,
// record the outcome on the email log.
type EmailProcessor struct {
	sender Sender
	logs   LogStore
	queue  *queue.Queue
	logger *zap.Logger
}

// NewEmailProcessor creates a confirmation email processor.
func NewEmailProcessor(sender Sender, logs LogStore, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{sender: sender, logs: logs, queue: q, logger: logger}
}

// Process executes one email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := p.sender.Send(payload.RecipientEmail, payload.Subject, payload.BodyHTML, payload.VerifyURL); err != nil {
		if payload.EmailLogID != uuid.Nil {
			if logErr := p.logs.MarkFailed(ctx, payload.EmailLogID, err.Error()); logErr != nil {
				p.logger.Error("mark email failed errored", zap.Error(logErr),
					zap.String("email_log_id", payload.EmailLogID.String()))
			}
		}
		return fmt.Errorf("send: %w", err)
	}

	if payload.EmailLogID != uuid.Nil {
		if err := p.logs.MarkSent(ctx, payload.EmailLogID); err != nil {
			// Delivery already happened, so log the bookkeeping failure and move on.
			p.logger.Error("mark email sent errored", zap.Error(err),
				zap.String("email_log_id", payload.EmailLogID.String()))
		}
	}

	p.logger.Info("confirmation email delivered",
		zap.String("recipient", payload.RecipientEmail),
		zap.String("registration_id", payload.RegistrationID.String()))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("email worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
