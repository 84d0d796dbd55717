package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/infrastructure/logger"
)

// ReminderService runs a daily sweep over overdue tasks and pushes a summary
// to the ops channel. Failures are logged, never fatal.
type ReminderService struct {
	repo     ports.TaskRepository
	notifier ports.Notifier
	logger   *logger.Logger
	cron     *cron.Cron
}

type ReminderServiceConfig struct {
	Repository ports.TaskRepository
	Notifier   ports.Notifier
	Logger     *logger.Logger
}

func NewReminderService(cfg ReminderServiceConfig) *ReminderService {
	return &ReminderService{
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		cron:     cron.New(cron.WithLocation(time.Local)),
	}
}

// Start registers the daily sweep at the given HH:MM time and starts the
// scheduler.
func (s *ReminderService) Start(at string) error {
	spec, err := dailySpec(at)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Infow("reminder_started", "at", at)
	return nil
}

func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *ReminderService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Errorw("reminder_sweep_failed", "error", err)
		return
	}

	now := time.Now()
	byAssignee := make(map[string]int)
	for i := range tasks {
		if IsOverdue(&tasks[i], now) {
			byAssignee[tasks[i].AssignedTo.Email]++
		}
	}
	if len(byAssignee) == 0 {
		s.logger.Infow("reminder_sweep_ok", "overdue", 0)
		return
	}

	var b strings.Builder
	b.WriteString("Overdue tasks:\n")
	total := 0
	for email, count := range byAssignee {
		fmt.Fprintf(&b, "- %s: %d\n", email, count)
		total += count
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, b.String()); err != nil {
			s.logger.Warnw("reminder_notify_failed", "error", err)
		}
	}
	s.logger.Infow("reminder_sweep_ok", "overdue", total, "assignees", len(byAssignee))
}

func dailySpec(at string) (string, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
