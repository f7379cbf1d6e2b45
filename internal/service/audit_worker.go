package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/metrics"
	"github.com/ginternational/backoffice/internal/models"
)

// AuditJob represents a single audit entry to be recorded.
type AuditJob struct {
	Action   models.Action
	Operator *models.Operator
	Target   models.Target
	Before   models.Snapshot
	After    models.Snapshot
}

// Compile-time check: *AuditWorker must satisfy domain.AuditSink.
var _ domain.AuditSink = (*AuditWorker)(nil)

// AuditWorker buffers audit entries and writes them via a single worker goroutine.
// As an AuditSink it never reports failures to the caller: full queues and
// failed writes are logged and counted instead.
type AuditWorker struct {
	recorder domain.AuditRecorder
	log      *logrus.Logger
	jobs     chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(recorder domain.AuditRecorder, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan *AuditJob, queueSize),
	}
}

// Created enqueues a CREATE record for t.
func (w *AuditWorker) Created(_ context.Context, op *models.Operator, t models.Target) error {
	w.Enqueue(&AuditJob{Action: models.ActionCreate, Operator: op, Target: t})
	return nil
}

// Updated enqueues an UPDATE record for t.
func (w *AuditWorker) Updated(_ context.Context, op *models.Operator, t models.Target, before, after models.Snapshot) error {
	w.Enqueue(&AuditJob{Action: models.ActionUpdate, Operator: op, Target: t, Before: before, After: after})
	return nil
}

// Deleted enqueues a DELETE record for t.
func (w *AuditWorker) Deleted(_ context.Context, op *models.Operator, t models.Target) error {
	w.Enqueue(&AuditJob{Action: models.ActionDelete, Operator: op, Target: t})
	return nil
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.AuditWritesTotal.WithLabelValues(string(job.Action), string(job.Target.Model), metrics.OutcomeDropped).Inc()
		w.log.WithFields(logrus.Fields{
			"action":       job.Action,
			"target_model": job.Target.Model,
			"target_id":    job.Target.ID,
		}).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(job *AuditJob) {
	defer metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	// The request that produced the job may be gone by now.
	ctx := context.Background()

	var err error
	switch job.Action {
	case models.ActionCreate:
		_, err = w.recorder.RecordCreate(ctx, job.Operator, job.Target)
	case models.ActionUpdate:
		_, err = w.recorder.RecordUpdate(ctx, job.Operator, job.Target, job.Before, job.After)
	case models.ActionDelete:
		_, err = w.recorder.RecordDelete(ctx, job.Operator, job.Target)
	default:
		err = &models.AuditWriteError{Action: job.Action, TargetModel: job.Target.Model, Err: models.ErrInvalidAuditRecord}
	}

	if err != nil {
		w.log.WithError(err).WithField("target_id", job.Target.ID).Warn("audit record failed")
	}
}
