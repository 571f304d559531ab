package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/apidocs-boilerplate/internal/lib/email"
	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to   string
	sent []email.ServiceRegistered
	err  error
}

func (f *fakeMailer) SendServiceRegisteredEmail(_ context.Context, to string, s email.ServiceRegistered) error {
	f.to = to
	f.sent = append(f.sent, s)
	return f.err
}

func newTestJobService(mailer Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{
		logger:      &logger,
		mailer:      mailer,
		notifyEmail: "ops@example.com",
		docsBaseURL: "http://localhost:8080",

		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
		}, []string{"outcome"}),
	}
}

func registeredTask(t *testing.T) *asynq.Task {
	t.Helper()
	version := "2.0.0"
	task, err := NewServiceRegisteredTask(&model.Service{
		Base:    model.Base{ID: uuid.New()},
		Name:    "Payments API",
		Slug:    "payments-api",
		Version: &version,
		Status:  model.ServiceStatusActive,
	})
	require.NoError(t, err)
	return task
}

func TestNewServiceRegisteredTask(t *testing.T) {
	task := registeredTask(t)
	assert.Equal(t, TaskServiceRegistered, task.Type())

	var p ServiceRegisteredPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "payments-api", p.Slug)
	assert.Equal(t, "2.0.0", p.Version)
	assert.Empty(t, p.Category)
}

func TestHandleServiceRegisteredTaskSendsEmail(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	require.NoError(t, j.handleServiceRegisteredTask(context.Background(), registeredTask(t)))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ops@example.com", mailer.to)
	assert.Equal(t, "Payments API", mailer.sent[0].ServiceName)
	assert.Equal(t, "http://localhost:8080/docs/payments-api", mailer.sent[0].DocsURL)
	assert.InDelta(t, 1, testutil.ToFloat64(j.notifications.WithLabelValues(outcomeSent)), 0)
}

func TestHandleServiceRegisteredTaskReturnsSendError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("resend down")}
	j := newTestJobService(mailer)

	err := j.handleServiceRegisteredTask(context.Background(), registeredTask(t))
	assert.EqualError(t, err, "resend down")
}

func TestHandleServiceRegisteredTaskSkipsRetryOnBadPayload(t *testing.T) {
	j := newTestJobService(&fakeMailer{})

	err := j.handleServiceRegisteredTask(context.Background(), asynq.NewTask(TaskServiceRegistered, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleServiceRegisteredTaskWithoutRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)
	j.notifyEmail = ""

	require.NoError(t, j.handleServiceRegisteredTask(context.Background(), registeredTask(t)))
	assert.Empty(t, mailer.sent)
	assert.InDelta(t, 1, testutil.ToFloat64(j.notifications.WithLabelValues(outcomeDropped)), 0)
}
