package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// TaskInput represents data required to create or update a task.
type TaskInput struct {
	Title         string
	ClientID      *uint
	Owner         string
	Priority      string
	Status        string
	StartDate     string
	DueDate       string
	CompletedDate string
	Description   string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo   *repository.TaskRepository
	clientRepo *repository.ClientRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, clientRepo *repository.ClientRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, clientRepo: clientRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if err := validateTaskInput(input); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:         input.Title,
		ClientID:      input.ClientID,
		Owner:         input.Owner,
		Priority:      input.Priority,
		Status:        input.Status,
		StartDate:     input.StartDate,
		DueDate:       input.DueDate,
		CompletedDate: input.CompletedDate,
		Description:   input.Description,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.StatusOpen
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.List(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// UpdateTask overwrites a task's fields from the input. Any status may replace
// any other; there is no transition graph.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, input TaskInput) (*model.Task, error) {
	if err := validateTaskInput(input); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.ClientID = input.ClientID
	task.Owner = input.Owner
	task.Priority = input.Priority
	task.Status = input.Status
	task.StartDate = input.StartDate
	task.DueDate = input.DueDate
	task.CompletedDate = input.CompletedDate
	task.Description = input.Description

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask flips a task to Completed and stamps the completion date.
func (s *TaskService) CompleteTask(ctx context.Context, id uint, completedAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Status = model.StatusCompleted
	task.CompletedDate = completedAt.UTC().Format("2006-01-02")
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ReopenTask puts a completed task back to Open and clears the completion date.
func (s *TaskService) ReopenTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Status = model.StatusOpen
	task.CompletedDate = ""
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	return s.taskRepo.Delete(ctx, id)
}

func validateTaskInput(input TaskInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if input.Priority != "" && !slices.Contains(model.Priorities, input.Priority) {
		return fmt.Errorf("unknown priority %q", input.Priority)
	}
	if input.Status != "" && !slices.Contains(model.Statuses, input.Status) {
		return fmt.Errorf("unknown status %q", input.Status)
	}
	return nil
}
