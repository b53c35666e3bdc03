package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// Summary holds the headline task counters for the KPI row.
type Summary struct {
	Total      int
	Completed  int
	InProgress int
	Overdue    int
}

// StatusCount is one bar of the status funnel.
type StatusCount struct {
	Status string
	Count  int
}

// OnTimeBreakdown classifies completed tasks against their due dates.
type OnTimeBreakdown struct {
	OnTime       int
	Late         int
	NotCompleted int
}

// IndustryLoad is the task count for one industry.
type IndustryLoad struct {
	Industry string
	Tasks    int
}

// RegionActivity is the per-region rollup behind the heat map. Every region
// appears, including ones with no clients or tasks.
type RegionActivity struct {
	ID             uint
	Name           string
	Country        string
	Latitude       float64
	Longitude      float64
	ClientsCount   int
	OpenTasks      int
	CriticalTasks  int
	CompletedTasks int
	Heat           float64
	CompletionRate float64
}

// TrendPoint is the overdue count for one due-date day.
type TrendPoint struct {
	Day     time.Time
	Overdue int
}

// HistogramBin is the task count for one calendar day.
type HistogramBin struct {
	Day   time.Time
	Count int
}

// Heat score weights: clients anchor a region, open tasks add ongoing work,
// critical tasks are counted double on top of being open.
const (
	heatClientWeight   = 1.0
	heatOpenWeight     = 0.5
	heatCriticalWeight = 2.0
)

// AnalyticsService computes read-only rollups from live rows. Nothing here
// writes or caches; every call reflects the store as of the query.
type AnalyticsService struct {
	taskRepo     *repository.TaskRepository
	clientRepo   *repository.ClientRepository
	regionRepo   *repository.RegionRepository
	industryRepo *repository.IndustryRepository
}

func NewAnalyticsService(
	taskRepo *repository.TaskRepository,
	clientRepo *repository.ClientRepository,
	regionRepo *repository.RegionRepository,
	industryRepo *repository.IndustryRepository,
) *AnalyticsService {
	return &AnalyticsService{
		taskRepo:     taskRepo,
		clientRepo:   clientRepo,
		regionRepo:   regionRepo,
		industryRepo: industryRepo,
	}
}

// Summary returns the headline counters. A task is overdue when it is not
// completed, its due date parses, and the due date is before today (UTC).
func (s *AnalyticsService) Summary(ctx context.Context, now time.Time) (Summary, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(tasks)}
	today := model.Today(now)
	for _, task := range tasks {
		switch task.Status {
		case model.StatusCompleted:
			sum.Completed++
		case model.StatusInProgress:
			sum.InProgress++
		}
		if isOverdue(task, today) {
			sum.Overdue++
		}
	}
	return sum, nil
}

// StatusFunnel counts tasks per status, largest first.
func (s *AnalyticsService) StatusFunnel(ctx context.Context) ([]StatusCount, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, task := range tasks {
		counts[task.Status]++
	}

	funnel := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		funnel = append(funnel, StatusCount{Status: status, Count: count})
	}
	sort.Slice(funnel, func(i, j int) bool {
		if funnel[i].Count != funnel[j].Count {
			return funnel[i].Count > funnel[j].Count
		}
		return funnel[i].Status < funnel[j].Status
	})
	return funnel, nil
}

// OnTime classifies every task: completed tasks with a parseable completed
// date are On Time when done on or before the due date (or when there is no
// due date), otherwise Late. Everything else is Not Completed.
func (s *AnalyticsService) OnTime(ctx context.Context) (OnTimeBreakdown, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return OnTimeBreakdown{}, err
	}

	var b OnTimeBreakdown
	for _, task := range tasks {
		done, doneOK := model.ParseDate(task.CompletedDate)
		if task.Status != model.StatusCompleted || !doneOK {
			b.NotCompleted++
			continue
		}
		due, dueOK := model.ParseDate(task.DueDate)
		if !dueOK || !done.After(due) {
			b.OnTime++
		} else {
			b.Late++
		}
	}
	return b, nil
}

// WorkloadByIndustry counts tasks per industry via task→client→industry.
// Tasks without a client, or whose client has no industry, are excluded.
func (s *AnalyticsService) WorkloadByIndustry(ctx context.Context) ([]IndustryLoad, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	industries, err := s.industryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	industryName := make(map[uint]string, len(industries))
	for _, ind := range industries {
		industryName[ind.ID] = ind.Name
	}
	clientIndustry := make(map[uint]*uint, len(clients))
	for _, c := range clients {
		clientIndustry[c.ID] = c.IndustryID
	}

	counts := make(map[string]int)
	for _, task := range tasks {
		if task.ClientID == nil {
			continue
		}
		industryID, ok := clientIndustry[*task.ClientID]
		if !ok || industryID == nil {
			continue
		}
		name, ok := industryName[*industryID]
		if !ok {
			continue
		}
		counts[name]++
	}

	load := make([]IndustryLoad, 0, len(counts))
	for name, count := range counts {
		load = append(load, IndustryLoad{Industry: name, Tasks: count})
	}
	sort.Slice(load, func(i, j int) bool {
		if load[i].Tasks != load[j].Tasks {
			return load[i].Tasks > load[j].Tasks
		}
		return load[i].Industry < load[j].Industry
	})
	return load, nil
}

// RegionHeat returns the per-region activity rollup, hottest first. Tasks
// reach a region through their client's region_id; that join is the only
// region↔task linkage.
func (s *AnalyticsService) RegionHeat(ctx context.Context) ([]RegionActivity, error) {
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[uint]*RegionActivity, len(regions))
	order := make([]*RegionActivity, 0, len(regions))
	for _, region := range regions {
		activity := &RegionActivity{
			ID:        region.ID,
			Name:      region.Name,
			Country:   region.Country,
			Latitude:  region.Latitude,
			Longitude: region.Longitude,
		}
		byRegion[region.ID] = activity
		order = append(order, activity)
	}

	clientRegion := make(map[uint]*uint, len(clients))
	for _, c := range clients {
		clientRegion[c.ID] = c.RegionID
		if c.RegionID != nil {
			if activity, ok := byRegion[*c.RegionID]; ok {
				activity.ClientsCount++
			}
		}
	}

	for _, task := range tasks {
		if task.ClientID == nil {
			continue
		}
		regionID, ok := clientRegion[*task.ClientID]
		if !ok || regionID == nil {
			continue
		}
		activity, ok := byRegion[*regionID]
		if !ok {
			continue
		}
		if task.Status == model.StatusCompleted {
			activity.CompletedTasks++
			continue
		}
		activity.OpenTasks++
		if task.Priority == model.PriorityCritical {
			activity.CriticalTasks++
		}
	}

	result := make([]RegionActivity, 0, len(order))
	for _, activity := range order {
		activity.Heat = float64(activity.ClientsCount)*heatClientWeight +
			float64(activity.OpenTasks)*heatOpenWeight +
			float64(activity.CriticalTasks)*heatCriticalWeight
		activity.CompletionRate = completionRate(activity.CompletedTasks, activity.OpenTasks)
		result = append(result, *activity)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Heat != result[j].Heat {
			return result[i].Heat > result[j].Heat
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// OverdueTrend counts overdue tasks per due-date day, ascending. Days that
// carry due tasks but no overdue ones appear with a zero count.
func (s *AnalyticsService) OverdueTrend(ctx context.Context, now time.Time) ([]TrendPoint, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := model.Today(now)
	counts := make(map[time.Time]int)
	for _, task := range tasks {
		due, ok := model.ParseDate(task.DueDate)
		if !ok {
			continue
		}
		if _, seen := counts[due]; !seen {
			counts[due] = 0
		}
		if isOverdue(task, today) {
			counts[due]++
		}
	}

	trend := make([]TrendPoint, 0, len(counts))
	for day, count := range counts {
		trend = append(trend, TrendPoint{Day: day, Overdue: count})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Day.Before(trend[j].Day) })
	return trend, nil
}

// DateHistogram bins tasks per calendar day of the given date field
// ("start_date" or "due_date"). Tasks without a parseable value are dropped.
func (s *AnalyticsService) DateHistogram(ctx context.Context, field string) ([]HistogramBin, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Time]int)
	for _, task := range tasks {
		var raw string
		switch field {
		case "start_date":
			raw = task.StartDate
		case "due_date":
			raw = task.DueDate
		default:
			return nil, fmt.Errorf("unknown date field %q", field)
		}
		day, ok := model.ParseDate(raw)
		if !ok {
			continue
		}
		counts[day]++
	}

	bins := make([]HistogramBin, 0, len(counts))
	for day, count := range counts {
		bins = append(bins, HistogramBin{Day: day, Count: count})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Day.Before(bins[j].Day) })
	return bins, nil
}

func isOverdue(task model.Task, today time.Time) bool {
	if task.Status == model.StatusCompleted {
		return false
	}
	due, ok := model.ParseDate(task.DueDate)
	return ok && due.Before(today)
}

// completionRate floors the denominator at 1 so a region with no tasks reads
// 0% instead of dividing by zero. Rounded to one decimal.
func completionRate(completed, open int) float64 {
	denom := open + completed
	if denom < 1 {
		denom = 1
	}
	rate := float64(completed) / float64(denom) * 100
	return math.Round(rate*10) / 10
}
