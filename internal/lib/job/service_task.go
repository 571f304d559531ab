package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

const TaskServiceRegistered = "catalog:service_registered"

// ServiceRegisteredPayload is the JSON stored in Redis for TaskServiceRegistered.
type ServiceRegisteredPayload struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Version   string `json:"version,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status"`
}

func NewServiceRegisteredTask(svc *model.Service) (*asynq.Task, error) {
	payload, err := json.Marshal(ServiceRegisteredPayload{
		ServiceID: svc.ID.String(),
		Name:      svc.Name,
		Slug:      svc.Slug,
		Version:   deref(svc.Version),
		Category:  deref(svc.Category),
		Status:    svc.Status,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskServiceRegistered,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}

// NotifyServiceRegistered enqueues the registration email for svc.
func (j *JobService) NotifyServiceRegistered(ctx context.Context, svc *model.Service) error {
	task, err := NewServiceRegisteredTask(svc)
	if err != nil {
		return errors.Wrap(err, "failed to build service registered task")
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return errors.Wrap(err, "failed to enqueue service registered task")
	}

	j.logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("service registered task enqueued")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
