package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"teamboard/internal/auth"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

// CreateTaskInput carries the fields for task creation. Priority
// defaults to LOW, status to TODO, and dates to the current time when
// absent.
type CreateTaskInput struct {
	Title       string
	Description string
	Tags        []string
	Priority    string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	AssigneeIDs []uuid.UUID
}

// UpdateTaskInput carries the fields for task update. Empty priority,
// status, and nil dates leave the stored values unchanged.
// ReplaceAssignees marks that AssigneeIDs was supplied: the full
// assignee set is replaced, not merged.
type UpdateTaskInput struct {
	Title            string
	Description      string
	Tags             []string
	Priority         string
	Status           string
	StartDate        *time.Time
	EndDate          *time.Time
	AssigneeIDs      []uuid.UUID
	ReplaceAssignees bool
}

// TaskService owns the task/assignee consistency rules. Every task
// mutation requires the caller to be the owning project's owner or a
// team member.
type TaskService interface {
	Create(ctx context.Context, caller auth.Identity, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	ListByStatus(ctx context.Context, status string) ([]model.Task, error)
	Assign(ctx context.Context, caller auth.Identity, taskID, userID uuid.UUID) error
	Unassign(ctx context.Context, caller auth.Identity, taskID, userID uuid.UUID) error
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) TaskService {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

func (s *taskService) Create(ctx context.Context, caller auth.Identity, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	if err := requireProjectAccess(project, caller.ID); err != nil {
		return nil, err
	}

	priority := model.TaskPriorityLow
	if in.Priority != "" {
		parsed, ok := model.ParseTaskPriority(in.Priority)
		if !ok {
			return nil, apperrors.ErrInvalidPriority
		}
		priority = parsed
	}

	status := model.TaskStatusTodo
	if in.Status != "" {
		parsed, ok := model.ParseTaskStatus(in.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		status = parsed
	}

	now := time.Now()
	startDate := now
	if in.StartDate != nil {
		startDate = *in.StartDate
	}
	endDate := now
	if in.EndDate != nil {
		endDate = *in.EndDate
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Tags:        datatypes.NewJSONSlice(in.Tags),
		Priority:    priority,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
		ProjectID:   projectID,
		CreatedBy:   caller.ID,
	}

	if err := s.taskRepo.Create(ctx, task, in.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return s.Get(ctx, task.ID)
}

func (s *taskService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTaskAccess(ctx, task, caller); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Tags = datatypes.NewJSONSlice(in.Tags)
	if in.Priority != "" {
		parsed, ok := model.ParseTaskPriority(in.Priority)
		if !ok {
			return nil, apperrors.ErrInvalidPriority
		}
		task.Priority = parsed
	}
	if in.Status != "" {
		parsed, ok := model.ParseTaskStatus(in.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		task.Status = parsed
	}
	if in.StartDate != nil {
		task.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		task.EndDate = *in.EndDate
	}

	// Save carries loaded assignee rows; strip them so the replace path
	// below is the only writer of the join table.
	task.Assignees = nil

	if err := s.taskRepo.Update(ctx, task, in.AssigneeIDs, in.ReplaceAssignees); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireTaskAccess(ctx, task, caller); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return s.findTask(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by user: %w", err)
	}
	return tasks, nil
}

func (s *taskService) ListByStatus(ctx context.Context, status string) ([]model.Task, error) {
	parsed, ok := model.ParseTaskStatus(status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}
	tasks, err := s.taskRepo.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("list tasks by status: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Assign(ctx context.Context, caller auth.Identity, taskID, userID uuid.UUID) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.requireTaskAccess(ctx, task, caller); err != nil {
		return err
	}

	if task.HasAssignee(userID) {
		return apperrors.ErrAssigneeExists
	}

	if err := s.taskRepo.AddAssignee(ctx, taskID, userID); err != nil {
		return fmt.Errorf("add assignee: %w", err)
	}
	return nil
}

func (s *taskService) Unassign(ctx context.Context, caller auth.Identity, taskID, userID uuid.UUID) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.requireTaskAccess(ctx, task, caller); err != nil {
		return err
	}

	if err := s.taskRepo.RemoveAssignee(ctx, taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAssigneeNotFound
		}
		return fmt.Errorf("remove assignee: %w", err)
	}
	return nil
}

func (s *taskService) findTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (s *taskService) requireTaskAccess(ctx context.Context, task *model.Task, caller auth.Identity) error {
	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("find project: %w", err)
	}
	return requireProjectAccess(project, caller.ID)
}
