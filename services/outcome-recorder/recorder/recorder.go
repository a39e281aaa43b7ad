package recorder

import (
	"context"
	"encoding/json"
	"math"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Mutter0815/ColdMailer/pkg/logx"
	"github.com/Mutter0815/ColdMailer/pkg/metrics"
	"github.com/Mutter0815/ColdMailer/pkg/model"
)

const maxRetries = 3

type outcomeStore interface {
	InsertOutcome(ctx context.Context, ev model.OutcomeEvent) error
}

type republisher interface {
	PublishJSONWithHeaders(ctx context.Context, body []byte, headers amqp.Table) error
}

// Recorder appends outcome events to the audit table.
type Recorder struct {
	Store outcomeStore
	Pub   republisher

	backoff func(retries int) time.Duration
}

func New(st outcomeStore, pub republisher) *Recorder {
	return &Recorder{Store: st, Pub: pub, backoff: backoffDelay}
}

func (r *Recorder) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	logx.L().Infow("recorder_started")
	for {
		select {
		case <-ctx.Done():
			logx.L().Infow("recorder_stopping")
			return ctx.Err()

		case d, ok := <-msgs:
			if !ok {
				logx.L().Warnw("consumer_channel_closed")
				return nil
			}
			r.handle(ctx, d)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, d amqp.Delivery) {
	start := time.Now()
	metrics.RecorderConsumed.Inc()
	defer func() { metrics.RecorderProcessDuration.Observe(time.Since(start).Seconds()) }()

	var ev model.OutcomeEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		logx.L().Warnw("event_unmarshal_error", "error", err)
		metrics.RecorderDropped.Inc()
		_ = d.Ack(false)
		return
	}
	fields := []any{
		"campaign_id", ev.CampaignID,
		"email", ev.Email,
		"status", ev.Status,
	}

	ctx1, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := r.Store.InsertOutcome(ctx1, ev)
	cancel()
	if err == nil {
		metrics.RecorderStored.Inc()
		logx.L().Debugw("outcome_stored", fields...)
		_ = d.Ack(false)
		return
	}

	logx.L().Errorw("db_insert_outcome_error", append(fields, "error", err)...)
	retries := headerRetries(d.Headers)
	if retries >= maxRetries {
		logx.L().Warnw("drop_after_retries", append(fields, "retries", retries)...)
		metrics.RecorderDropped.Inc()
		_ = d.Ack(false)
		return
	}

	delay := r.backoff(retries + 1)
	metrics.RecorderRetries.Inc()
	logx.L().Infow("retry_requeue", append(fields, "retries", retries+1, "delay", delay.String())...)
	if err := r.requeue(ctx, d, retries+1, delay); err != nil {
		logx.L().Errorw("retry_publish_error", append(fields, "retries", retries+1, "error", err)...)
		_ = d.Nack(false, true)
	}
}

func (r *Recorder) requeue(ctx context.Context, d amqp.Delivery, retries int, delay time.Duration) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	headers := copyHeaders(d.Headers)
	headers["x-retries"] = int32(retries)

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Pub.PublishJSONWithHeaders(pubCtx, d.Body, headers); err != nil {
		return err
	}
	return d.Ack(false)
}

func headerRetries(h amqp.Table) int {
	if h == nil {
		return 0
	}
	switch t := h["x-retries"].(type) {
	case int32:
		return int(t)
	case int64:
		return int(t)
	case int:
		return t
	case uint8:
		return int(t)
	}
	return 0
}

// backoffDelay is 1s, 2s, 4s for retries 1..3.
func backoffDelay(retries int) time.Duration {
	if retries <= 0 {
		return 0
	}
	sec := math.Pow(2, float64(retries-1))
	return time.Duration(sec) * time.Second
}

func copyHeaders(h amqp.Table) amqp.Table {
	dup := make(amqp.Table, len(h)+1)
	for k, v := range h {
		dup[k] = v
	}
	return dup
}
