package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamboard/internal/model"
)

// TaskRepository defines task persistence operations. Assignee rows are
// written in the same transaction as the task row, with the same
// replace-wholesale semantics as team memberships.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error
	Update(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID, replaceAssignees bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	ListByStatus(ctx context.Context, status model.TaskStatus) ([]model.Task, error)
	AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts the task and one assignee row per user ID atomically.
func (r *taskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, assigneeIDs)
	})
}

// Update saves the task row. When replaceAssignees is set the existing
// assignee set is deleted and reinserted from assigneeIDs.
func (r *taskRepository) Update(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID, replaceAssignees bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignees").Save(task).Error; err != nil {
			return err
		}
		if !replaceAssignees {
			return nil
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, assigneeIDs)
	})
}

// Delete removes the task and its assignee rows in one transaction.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Task{}).Error
	})
}

// FindByID loads the task with its assignees resolved to users.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignees.User").
		Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignees.User").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByUser returns tasks the user is assigned to.
func (r *taskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Preload("Assignees.User").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListByStatus(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignees.User").
		Where("status = ?", status).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&model.TaskAssignee{TaskID: taskID, UserID: userID}).Error
}

// RemoveAssignee deletes the assignee row; gorm.ErrRecordNotFound is
// returned when no row matched.
func (r *taskRepository) RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.TaskAssignee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertAssignees(tx *gorm.DB, taskID uuid.UUID, assigneeIDs []uuid.UUID) error {
	if len(assigneeIDs) == 0 {
		return nil
	}
	rows := make([]model.TaskAssignee, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		rows = append(rows, model.TaskAssignee{TaskID: taskID, UserID: userID})
	}
	return tx.Create(&rows).Error
}
