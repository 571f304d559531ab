package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/apidocs-boilerplate/internal/config"
	"github.com/deppfellow/apidocs-boilerplate/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer delivers the emails sent by task handlers.
type Mailer interface {
	SendServiceRegisteredEmail(ctx context.Context, to string, s email.ServiceRegistered) error
}

// InitHandlers builds the dependencies used by task handlers. It must run before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

func (j *JobService) handleServiceRegisteredTask(ctx context.Context, t *asynq.Task) error {
	var p ServiceRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal service registered payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskServiceRegistered).
		Str("service_id", p.ServiceID).
		Logger()

	if j.notifyEmail == "" || j.mailer == nil {
		log.Warn().Msg("no notification recipient configured, dropping task")
		j.recordOutcome(outcomeDropped)
		return nil
	}

	log.Info().Str("to", j.notifyEmail).Msg("processing service registered task")

	err := j.mailer.SendServiceRegisteredEmail(ctx, j.notifyEmail, email.ServiceRegistered{
		ServiceName: p.Name,
		Slug:        p.Slug,
		Version:     p.Version,
		Category:    p.Category,
		Status:      p.Status,
		DocsURL:     j.docsBaseURL + "/docs/" + p.Slug,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send service registered email")
		j.recordOutcome(outcomeFailed)
		return err
	}

	log.Info().Msg("sent service registered email")
	j.recordOutcome(outcomeSent)
	return nil
}

const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeDropped = "dropped"
)

func (j *JobService) recordOutcome(outcome string) {
	if j.notifications != nil {
		j.notifications.WithLabelValues(outcome).Inc()
	}
}
