package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamboard/internal/model"
)

// ProjectRepository defines project persistence operations. Writes that
// touch both the project row and its membership rows run inside a single
// transaction: a failed membership insert rolls back the project write.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project, memberIDs []uuid.UUID) error
	Update(ctx context.Context, project *model.Project, memberIDs []uuid.UUID, replaceMembers bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts the project and one membership row per member ID
// atomically.
func (r *projectRepository) Create(ctx context.Context, project *model.Project, memberIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return insertMemberships(tx, project.ID, memberIDs)
	})
}

// Update saves the project row. When replaceMembers is set the existing
// membership set is deleted and reinserted from memberIDs: a replace,
// not a merge, so omitting a previously-member user removes that
// membership.
func (r *projectRepository) Update(ctx context.Context, project *model.Project, memberIDs []uuid.UUID, replaceMembers bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Save(project).Error; err != nil {
			return err
		}
		if !replaceMembers {
			return nil
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.TeamMembership{}).Error; err != nil {
			return err
		}
		return insertMemberships(tx, project.ID, memberIDs)
	})
}

// Delete removes the project, its membership rows, its tasks, and those
// tasks' assignee rows in one transaction.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&model.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.TaskAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.TeamMembership{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Project{}).Error
	})
}

// FindByID loads the project with its members resolved to users.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("Members.User").
		Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns all projects with members resolved, in insertion order.
func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Preload("Members.User").
		Order("created_at").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func insertMemberships(tx *gorm.DB, projectID uuid.UUID, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	rows := make([]model.TeamMembership, 0, len(memberIDs))
	for _, userID := range memberIDs {
		rows = append(rows, model.TeamMembership{ProjectID: projectID, UserID: userID})
	}
	return tx.Create(&rows).Error
}
