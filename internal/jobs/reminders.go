package jobs

import (
	"log/slog"
	"time"

	"github.com/tarostudio/portal-api/internal/constants"
	"github.com/tarostudio/portal-api/internal/notifications"
	"github.com/tarostudio/portal-api/internal/repository"
)

// Runner executes the periodic maintenance scans: cleaning up long-expired
// invites and reminding owners about tasks due soon. Both are plain
// sequential batch scans.
type Runner struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	notifier    *notifications.Notifier
	logger      *slog.Logger
}

// NewRunner creates a new job Runner.
func NewRunner(teamRepo repository.TeamRepository, projectRepo repository.ProjectRepository, notifier *notifications.Notifier, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Start runs the scans on the given interval until stop is closed.
func (r *Runner) Start(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.RunOnce()
			case <-stop:
				return
			}
		}
	}()
}

// RunOnce executes a single pass of all scans.
func (r *Runner) RunOnce() {
	r.sweepExpiredInvites()
	r.sendTaskReminders()
}

// sweepExpiredInvites removes unused invites whose expiry passed long enough
// ago that a resend is no longer expected. Recently expired invites stay so
// the resend path can refresh them in place.
func (r *Runner) sweepExpiredInvites() {
	cutoff := time.Now().Add(-constants.ExpiredInviteRetention)
	removed, err := r.teamRepo.DeleteUnusedInvitesExpiredBefore(cutoff)
	if err != nil {
		r.logger.Error("invite sweep failed", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Info("removed stale invites", "count", removed)
	}
}

// sendTaskReminders emails organization owners about unfinished tasks due
// within the next 24 hours.
func (r *Runner) sendTaskReminders() {
	now := time.Now()
	tasks, err := r.projectRepo.ListTasksDueBetween(now, now.Add(24*time.Hour))
	if err != nil {
		r.logger.Error("task reminder scan failed", "error", err)
		return
	}

	for _, task := range tasks {
		owner := task.Project.Organization.Owner
		if owner.Email == "" || task.DueDate == nil {
			continue
		}
		r.notifier.DispatchTaskReminder(notifications.TaskReminderEmail{
			RecipientEmail: owner.Email,
			RecipientName:  owner.Name,
			ProjectName:    task.Project.Name,
			TaskTitle:      task.Title,
			DueDate:        *task.DueDate,
		})
	}
}
