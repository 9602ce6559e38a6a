package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-co-op/gocron"
)

// Default notification settings
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultInterval              = time.Hour
)

// Notifier sends practice reminders to a profile
type Notifier interface {
	SendReminders(profileID int64, count int) error
}

// Source reports how many practice items are due per profile
type Source interface {
	DueCounts() (map[int64]int, error)
	DueCount(profileID int64) (int, error)
}

// Config holds the reminder settings
type Config struct {
	StartHour int           // First hour reminders may be sent (0-23)
	EndHour   int           // Last hour reminders may be sent (0-23), inclusive
	Interval  time.Duration // How often due items are checked
	Location  *time.Location
}

// DefaultConfig returns the default reminder settings
func DefaultConfig() Config {
	return Config{
		StartHour: DefaultNotificationStartHour,
		EndHour:   DefaultNotificationEndHour,
		Interval:  DefaultInterval,
		Location:  time.Local,
	}
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	source    Source
	config    Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(notifier Notifier, source Source, config Config, logger *slog.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(config.Location),
		notifier:  notifier,
		source:    source,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// The first check runs one interval after start
	_, err := s.scheduler.Every(s.config.Interval).WaitForSchedule().Do(s.checkAndSendReminders)
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InNotificationHours reports whether reminders may be sent at hour
func (s *Scheduler) InNotificationHours(hour int) bool {
	start, end := s.config.StartHour, s.config.EndHour
	if start <= end {
		return hour >= start && hour <= end
	}
	// The window wraps around midnight
	return hour >= start || hour <= end
}

// checkAndSendReminders notifies every profile that has items due
func (s *Scheduler) checkAndSendReminders() {
	currentHour := s.now().In(s.config.Location).Hour()
	if !s.InNotificationHours(currentHour) {
		s.logger.Info("outside notification hours, skipping reminders",
			"hour", currentHour, "start", s.config.StartHour, "end", s.config.EndHour)
		return
	}

	counts, err := s.source.DueCounts()
	if err != nil {
		s.logger.Error("failed to get due practice items", "error", err)
		return
	}

	profiles := make([]int64, 0, len(counts))
	for id := range counts {
		profiles = append(profiles, id)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i] < profiles[j] })

	for _, id := range profiles {
		count := counts[id]
		if count <= 0 {
			continue
		}
		if err := s.notifier.SendReminders(id, count); err != nil {
			s.logger.Error("failed to send reminder", "profile", id, "error", err)
		}
	}
}

// RunManualCheck forces a check for a specific profile, ignoring notification hours
func (s *Scheduler) RunManualCheck(profileID int64) error {
	count, err := s.source.DueCount(profileID)
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.SendReminders(profileID, count)
	}
	return nil
}
