package mailer

import (
	"context"
	"encoding/base64"
	"html/template"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/queue"
)

// LogStore records email delivery outcomes.
type LogStore interface {
	Create(ctx context.Context, log *models.EmailLog) error
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// JobQueue hands rendered emails to the background worker.
type JobQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Dispatcher renders confirmation emails and hands them off for delivery.
// With a job queue configured, dispatch means "accepted for delivery" and
// the worker owns the outcome; without one, the email is sent inline.
type Dispatcher struct {
	logs     LogStore
	jobs     JobQueue // nil sends inline via sender
	sender   *SMTPSender
	fromName string
	logger   *zap.Logger
}

// NewDispatcher creates an email dispatcher.
func NewDispatcher(logs LogStore, jobs JobQueue, sender *SMTPSender, fromName string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logs: logs, jobs: jobs, sender: sender, fromName: fromName, logger: logger}
}

// DispatchConfirmation renders and dispatches the registration confirmation.
func (d *Dispatcher) DispatchConfirmation(ctx context.Context, reg *models.Registration, entity *models.EntityInfo, qrPNG []byte) error {
	subject := ConfirmationSubject(entity.Title)
	body, err := RenderConfirmation(ConfirmationData{
		FullName:         reg.FullName,
		EntityTitle:      entity.Title,
		EntityTitleNe:    entity.TitleNe,
		EntityDate:       FormatEntityDate(entity.Date),
		EntityLocation:   entity.Location,
		RegistrationCode: reg.RegistrationCode,
		VerifyURL:        reg.QRData,
		QRDataURL:        template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)),
		FromName:         d.fromName,
	})
	if err != nil {
		return err
	}

	log := &models.EmailLog{
		EventID:        reg.EventID,
		ProgramID:      reg.ProgramID,
		RegistrationID: &reg.ID,
		EmailType:      models.EmailTypeRegistrationConfirmation,
		RecipientEmail: reg.Email,
		Subject:        subject,
		Status:         models.EmailLogStatusPending,
	}
	if err := d.logs.Create(ctx, log); err != nil {
		// The log row is observability, not correctness; keep going.
		d.logger.Warn("email log create failed", zap.Error(err))
	}

	if d.jobs != nil {
		err := d.jobs.EnqueueEmail(ctx, queue.EmailPayload{
			EmailLogID:     log.ID,
			EventID:        reg.EventID,
			ProgramID:      reg.ProgramID,
			RegistrationID: reg.ID,
			RecipientEmail: reg.Email,
			RecipientName:  reg.FullName,
			Subject:        subject,
			BodyHTML:       body,
			VerifyURL:      reg.QRData,
		})
		if err != nil {
			d.markFailed(ctx, log.ID, err)
			return err
		}
		return nil
	}

	if err := d.sender.Send(reg.Email, subject, body, reg.QRData); err != nil {
		d.markFailed(ctx, log.ID, err)
		return err
	}
	if err := d.logs.MarkSent(ctx, log.ID); err != nil {
		d.logger.Warn("email log update failed", zap.Error(err))
	}
	return nil
}

func (d *Dispatcher) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	if err := d.logs.MarkFailed(ctx, id, cause.Error()); err != nil {
		d.logger.Warn("email log update failed", zap.Error(err))
	}
}
