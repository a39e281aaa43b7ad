package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mutter0815/ColdMailer/internal/store"
	"github.com/Mutter0815/ColdMailer/pkg/logx"
	"github.com/Mutter0815/ColdMailer/pkg/mailer"
	"github.com/Mutter0815/ColdMailer/pkg/metrics"
	"github.com/Mutter0815/ColdMailer/pkg/model"
)

const templateNotFound = "Template not found"

type TemplateSource interface {
	GetTemplate(ctx context.Context, typ string) (store.Template, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, body []byte) error
}

// Clock arms deferred tasks. The system clock uses time.AfterFunc.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

type systemClock struct{}

func (systemClock) Now() time.Time                      { return time.Now() }
func (systemClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

type Options struct {
	// From is the envelope sender; Request.SenderName becomes its display name.
	From       string
	Attachment *mailer.Attachment
	Events     EventPublisher
	Clock      Clock
}

type batch struct {
	id      string
	req     Request
	started time.Time
}

type job struct {
	index        int
	address      string
	scheduledFor time.Time
	deadline     time.Time
}

// Runner drives one batch at a time from acceptance to completion. It is
// the only writer of the progress state; readers get copies.
type Runner struct {
	policy    *Policy
	templates TemplateSource
	sender    mailer.Sender
	opts      Options

	mu        sync.Mutex
	current   *batch
	active    bool
	batchSize int
	state     State
	outcomes  []EmailOutcome
}

func NewRunner(p *Policy, templates TemplateSource, sender mailer.Sender, opts Options) *Runner {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Runner{policy: p, templates: templates, sender: sender, opts: opts}
}

// Start validates req, schedules every recipient and arms one task per
// recipient. Nothing is armed unless every send time could be computed.
func (r *Runner) Start(req Request) (Ack, error) {
	emails, err := req.Validate()
	if err != nil {
		metrics.CampaignsRejected.WithLabelValues("validation").Inc()
		return Ack{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		metrics.CampaignsRejected.WithLabelValues("in_progress").Inc()
		return Ack{}, ErrCampaignInProgress
	}

	now := r.opts.Clock.Now()
	jobs := make([]job, len(emails))
	for i, addr := range emails {
		at, err := r.policy.SendTime(req.DaysToDelay, i, now)
		if err != nil {
			metrics.CampaignsRejected.WithLabelValues("schedule").Inc()
			return Ack{}, err
		}
		jobs[i] = job{
			index:        i,
			address:      addr,
			scheduledFor: at,
			deadline:     at.Add(r.policy.InterEmailDelay(i)),
		}
	}

	b := &batch{id: uuid.NewString(), req: req, started: now}
	r.current = b
	r.active = true
	r.batchSize = len(jobs)
	r.state = State{}
	r.outcomes = make([]EmailOutcome, 0, len(jobs))

	first := jobs[0].deadline
	for _, j := range jobs {
		if j.deadline.Before(first) {
			first = j.deadline
		}
		j := j
		r.opts.Clock.AfterFunc(j.deadline.Sub(now), func() { r.deliver(b, j) })
	}

	metrics.CampaignsAccepted.Inc()
	metrics.CampaignActive.Set(1)
	metrics.EmailsScheduled.Add(float64(len(jobs)))
	logx.L().Infow("campaign_started",
		"campaign_id", b.id,
		"email_type", req.EmailType,
		"total", len(jobs),
		"days_to_delay", req.DaysToDelay,
		"first_send_at", first,
	)

	return Ack{
		Message:       fmt.Sprintf("%d emails scheduled with random delays.", len(jobs)),
		CampaignID:    b.id,
		EmailType:     req.EmailType,
		TotalEmails:   len(jobs),
		DaysToDelay:   req.DaysToDelay,
		ScheduledDate: jobs[0].scheduledFor.Format("2006-01-02"),
		FirstSendAt:   first,
	}, nil
}

// deliver runs at a recipient's deadline. The template is read at this
// point, so edits made while a batch runs apply to emails not yet sent.
func (r *Runner) deliver(b *batch, j job) {
	ctx := context.Background()
	out := EmailOutcome{
		Email:        j.address,
		Time:         r.opts.Clock.Now(),
		EmailType:    b.req.EmailType,
		ScheduledFor: j.scheduledFor,
	}
	fields := []any{"campaign_id", b.id, "index", j.index, "to", j.address}

	tctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	tpl, err := r.templates.GetTemplate(tctx, string(b.req.EmailType))
	cancel()

	switch {
	case errors.Is(err, store.ErrNotFound):
		out.Status, out.Error = StatusError, templateNotFound
		metrics.EmailsFailed.WithLabelValues("template").Inc()
		logx.L().Warnw("template_missing", append(fields, "email_type", b.req.EmailType)...)
	case err != nil:
		out.Status, out.Error = StatusError, err.Error()
		metrics.EmailsFailed.WithLabelValues("template").Inc()
		logx.L().Errorw("template_lookup_error", append(fields, "error", err)...)
	default:
		msg := Render(tpl, j.address, b.req.SenderName, b.req.CompanyDetails)
		m := mailer.Message{
			From:     r.opts.From,
			FromName: b.req.SenderName,
			To:       j.address,
			Subject:  msg.Subject,
			Body:     msg.Body,
		}
		if r.opts.Attachment != nil {
			m.Attachments = []mailer.Attachment{*r.opts.Attachment}
		}

		start := time.Now()
		err := r.sender.Send(ctx, m)
		metrics.EmailSendDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			out.Status, out.Error = StatusError, err.Error()
			metrics.EmailsFailed.WithLabelValues("delivery").Inc()
			logx.L().Infow("send_failed", append(fields, "error", err)...)
		} else {
			out.Status = StatusSent
			metrics.EmailsSent.Inc()
			logx.L().Infow("send_success", fields...)
		}
	}

	r.record(b, out)
}

func (r *Runner) record(b *batch, out EmailOutcome) {
	r.mu.Lock()
	if r.current != b {
		r.mu.Unlock()
		logx.L().Warnw("stale_outcome_dropped", "campaign_id", b.id, "to", out.Email)
		return
	}
	r.outcomes = append(r.outcomes, out)
	if out.Status == StatusSent {
		r.state.Sent++
	} else {
		r.state.Failed++
		r.state.HasErrors = true
	}
	r.state.Total = len(r.outcomes)
	done := r.state.Sent+r.state.Failed == r.batchSize
	if done {
		r.state.AllDone = true
		r.active = false
	}
	st := r.state
	r.mu.Unlock()

	if done {
		metrics.CampaignActive.Set(0)
		logx.L().Infow("campaign_completed",
			"campaign_id", b.id,
			"sent", st.Sent,
			"failed", st.Failed,
			"duration", time.Since(b.started).String(),
		)
	}
	r.publish(b, out)
}

func (r *Runner) publish(b *batch, out EmailOutcome) {
	if r.opts.Events == nil {
		return
	}
	payload, err := json.Marshal(model.OutcomeEvent{
		CampaignID:   b.id,
		Email:        out.Email,
		EmailType:    string(out.EmailType),
		Status:       out.Status,
		Error:        out.Error,
		ScheduledFor: out.ScheduledFor,
		AttemptedAt:  out.Time,
	})
	if err != nil {
		metrics.OutcomePublishErrors.Inc()
		logx.L().Errorw("outcome_marshal_error", "campaign_id", b.id, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.opts.Events.PublishJSON(ctx, payload); err != nil {
		metrics.OutcomePublishErrors.Inc()
		logx.L().Warnw("outcome_publish_error", "campaign_id", b.id, "to", out.Email, "error", err)
	}
}

// Snapshot is safe to call at any time; zero before the first batch.
func (r *Runner) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Details returns a copy of the outcomes recorded so far, in completion order.
func (r *Runner) Details() []EmailOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailOutcome(nil), r.outcomes...)
}

func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
