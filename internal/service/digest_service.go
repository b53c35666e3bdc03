package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// DigestService builds human-readable operations summaries for notifications.
type DigestService struct {
	analytics *AnalyticsService
	taskRepo  *repository.TaskRepository
}

func NewDigestService(analytics *AnalyticsService, taskRepo *repository.TaskRepository) *DigestService {
	return &DigestService{analytics: analytics, taskRepo: taskRepo}
}

// DailyDigest renders the daily operations report: headline counters, the
// overdue task list and the hottest regions. HTML-formatted for Telegram.
func (s *DigestService) DailyDigest(ctx context.Context, now time.Time) (string, error) {
	summary, err := s.analytics.Summary(ctx, now)
	if err != nil {
		return "", err
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return "", err
	}

	today := model.Today(now)
	var overdue []model.Task
	for _, task := range tasks {
		if isOverdue(task, today) {
			overdue = append(overdue, task)
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		di, _ := model.ParseDate(overdue[i].DueDate)
		dj, _ := model.ParseDate(overdue[j].DueDate)
		return di.Before(dj)
	})

	heat, err := s.analytics.RegionHeat(ctx)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("<b>Daily operations digest</b>\n")
	builder.WriteString(fmt.Sprintf("%s\n\n", today.Format("02.01.2006")))

	builder.WriteString(fmt.Sprintf(
		"Tasks: %d total, %d completed, %d in progress, %d overdue\n\n",
		summary.Total, summary.Completed, summary.InProgress, summary.Overdue,
	))

	builder.WriteString("<b>Overdue</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— nothing overdue\n")
	} else {
		for _, task := range overdue {
			builder.WriteString(formatOverdueTask(task, today))
		}
	}

	builder.WriteString("\n<b>Hottest regions</b>\n")
	hot := 0
	for _, region := range heat {
		if region.Heat <= 0 || hot == 5 {
			break
		}
		builder.WriteString(fmt.Sprintf(
			"• %s — heat %.1f (%d clients, %d open, %d critical)\n",
			html.EscapeString(region.Name),
			region.Heat, region.ClientsCount, region.OpenTasks, region.CriticalTasks,
		))
		hot++
	}
	if hot == 0 {
		builder.WriteString("— no regional activity\n")
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatOverdueTask(task model.Task, today time.Time) string {
	due, _ := model.ParseDate(task.DueDate)
	days := int(today.Sub(due).Hours() / 24)
	owner := task.Owner
	if owner == "" {
		owner = "unassigned"
	}
	return fmt.Sprintf(
		"• %s (%s, %s) — %d day(s) over\n",
		html.EscapeString(task.Title), html.EscapeString(owner), task.Priority, days,
	)
}
