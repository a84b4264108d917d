package reminder

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fkhayef/calendar/internal/logger"
)

// Sender delivers a notification over its channel
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// LogSender writes notifications to the log instead of delivering them
type LogSender struct {
	Logger *zap.Logger
}

// Send logs the notification
func (s LogSender) Send(ctx context.Context, n *Notification) error {
	logger.OrNop(s.Logger).Info("reminder delivered",
		zap.String("notification_id", n.ID),
		zap.String("event_id", n.EventID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("channel", string(n.Channel)),
		zap.String("message", n.Message),
	)
	return nil
}

// Dispatcher polls the due queue on a cron schedule and hands each
// notification to a Sender
type Dispatcher struct {
	scheduler *Scheduler
	sender    Sender
	logger    *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewDispatcher creates a dispatcher for the scheduler's due queue
func NewDispatcher(scheduler *Scheduler, sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		scheduler: scheduler,
		sender:    sender,
		logger:    logger.OrNop(log),
	}
}

// Start runs RunOnce on schedule (standard cron syntax or descriptors such as
// "@every 1m") until Stop is called
func (d *Dispatcher) Start(schedule string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cron != nil {
		return fmt.Errorf("dispatcher already started")
	}

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{d.logger}),
		cron.SkipIfStillRunning(cronLogger{d.logger}),
	))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := d.RunOnce(context.Background()); err != nil {
			d.logger.Error("reminder dispatch failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	d.cron = c
	d.logger.Info("reminder dispatcher started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule and waits for a running dispatch to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	c := d.cron
	d.cron = nil
	d.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	d.logger.Info("reminder dispatcher stopped")
}

// RunOnce delivers every due notification and returns how many were sent.
// A notification whose delivery fails stays in the queue for the next run.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	due, err := d.scheduler.Due(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := d.sender.Send(ctx, n); err != nil {
			d.logger.Warn("reminder delivery failed",
				zap.String("notification_id", n.ID),
				zap.String("channel", string(n.Channel)),
				zap.Error(err),
			)
			continue
		}
		if _, err := d.scheduler.MarkSent(ctx, n.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
