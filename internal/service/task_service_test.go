package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error {
	args := m.Called(ctx, task, assigneeIDs)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID, replaceAssignees bool) error {
	args := m.Called(ctx, task, assigneeIDs, replaceAssignees)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByStatus(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskRepository) RemoveAssignee(ctx context.Context, taskID, userID uuid.UUID) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func TestTaskService_Create(t *testing.T) {
	owner := callerIdentity()
	member := callerIdentity()
	stranger := callerIdentity()
	projectID := uuid.New()
	assignees := []uuid.UUID{uuid.New(), uuid.New()}

	project := &model.Project{
		ID:      projectID,
		Title:   "P1",
		OwnerID: owner.ID,
		Members: []model.TeamMembership{{ProjectID: projectID, UserID: member.ID}},
	}

	t.Run("member creates task with defaults", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task"), []uuid.UUID(nil)).Run(func(args mock.Arguments) {
			task := args.Get(1).(*model.Task)
			task.ID = uuid.New()
			assert.Equal(t, model.TaskPriorityLow, task.Priority)
			assert.Equal(t, model.TaskStatusTodo, task.Status)
			assert.Equal(t, member.ID, task.CreatedBy)
			assert.False(t, task.StartDate.IsZero())
			assert.False(t, task.EndDate.IsZero())
		}).Return(nil)
		mockTasks.On("FindByID", mock.Anything, mock.Anything).Return(&model.Task{Title: "T1", ProjectID: projectID}, nil)

		service := NewTaskService(mockTasks, mockProjects)
		task, err := service.Create(context.Background(), member, projectID, CreateTaskInput{Title: "T1"})

		assert.NoError(t, err)
		assert.NotNil(t, task)
		mockTasks.AssertExpectations(t)
	})

	t.Run("assignees are inserted with the task", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task"), assignees).Return(nil)
		mockTasks.On("FindByID", mock.Anything, mock.Anything).Return(&model.Task{
			Title:     "T1",
			ProjectID: projectID,
			Assignees: []model.TaskAssignee{
				{UserID: assignees[0]},
				{UserID: assignees[1]},
			},
		}, nil)

		service := NewTaskService(mockTasks, mockProjects)
		task, err := service.Create(context.Background(), owner, projectID, CreateTaskInput{
			Title:       "T1",
			Tags:        []string{"backend", "urgent"},
			AssigneeIDs: assignees,
		})

		assert.NoError(t, err)
		assert.Len(t, task.Assignees, 2)
		assert.True(t, task.HasAssignee(assignees[0]))
		assert.True(t, task.HasAssignee(assignees[1]))
		mockTasks.AssertExpectations(t)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		task, err := service.Create(context.Background(), stranger, projectID, CreateTaskInput{Title: "T1"})

		assert.Equal(t, apperrors.ErrNotProjectMember, err)
		assert.Nil(t, task)
		mockTasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing project yields not found", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(nil, gorm.ErrRecordNotFound)

		service := NewTaskService(mockTasks, mockProjects)
		_, err := service.Create(context.Background(), owner, projectID, CreateTaskInput{Title: "T1"})

		assert.Equal(t, apperrors.ErrProjectNotFound, err)
	})

	t.Run("unknown priority is rejected", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		_, err := service.Create(context.Background(), owner, projectID, CreateTaskInput{Title: "T1", Priority: "URGENT"})

		assert.Equal(t, apperrors.ErrInvalidPriority, err)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		_, err := service.Create(context.Background(), owner, projectID, CreateTaskInput{Title: "T1", Status: "DONE"})

		assert.Equal(t, apperrors.ErrInvalidStatus, err)
	})
}

func TestTaskService_Update(t *testing.T) {
	owner := callerIdentity()
	stranger := callerIdentity()
	projectID := uuid.New()
	taskID := uuid.New()
	newAssignee := uuid.New()

	project := &model.Project{ID: projectID, OwnerID: owner.ID}
	stored := func() *model.Task {
		return &model.Task{
			ID:        taskID,
			Title:     "T1",
			Status:    model.TaskStatusTodo,
			Priority:  model.TaskPriorityLow,
			StartDate: time.Now(),
			EndDate:   time.Now(),
			ProjectID: projectID,
			CreatedBy: owner.ID,
		}
	}

	t.Run("supplied assignees replace the full set", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(stored(), nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task"), []uuid.UUID{newAssignee}, true).Run(func(args mock.Arguments) {
			task := args.Get(1).(*model.Task)
			assert.Equal(t, model.TaskStatusInProcess, task.Status)
			assert.Equal(t, model.TaskPriorityHigh, task.Priority)
		}).Return(nil)

		service := NewTaskService(mockTasks, mockProjects)
		task, err := service.Update(context.Background(), owner, taskID, UpdateTaskInput{
			Title:            "T1 updated",
			Status:           "INPROCESS",
			Priority:         "HIGH",
			AssigneeIDs:      []uuid.UUID{newAssignee},
			ReplaceAssignees: true,
		})

		assert.NoError(t, err)
		assert.NotNil(t, task)
		mockTasks.AssertExpectations(t)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(stored(), nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		_, err := service.Update(context.Background(), stranger, taskID, UpdateTaskInput{Title: "hijack"})

		assert.Equal(t, apperrors.ErrNotProjectMember, err)
		mockTasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing task yields not found", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

		service := NewTaskService(mockTasks, mockProjects)
		_, err := service.Update(context.Background(), owner, taskID, UpdateTaskInput{Title: "T1"})

		assert.Equal(t, apperrors.ErrTaskNotFound, err)
	})
}

func TestTaskService_Delete(t *testing.T) {
	owner := callerIdentity()
	stranger := callerIdentity()
	projectID := uuid.New()
	taskID := uuid.New()

	project := &model.Project{ID: projectID, OwnerID: owner.ID}
	stored := &model.Task{ID: taskID, Title: "T1", ProjectID: projectID}

	t.Run("member deletes successfully", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(stored, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("Delete", mock.Anything, taskID).Return(nil)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Delete(context.Background(), owner, taskID)

		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(stored, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Delete(context.Background(), stranger, taskID)

		assert.Equal(t, apperrors.ErrNotProjectMember, err)
		mockTasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Assignment(t *testing.T) {
	owner := callerIdentity()
	projectID := uuid.New()
	taskID := uuid.New()
	userID := uuid.New()

	project := &model.Project{ID: projectID, OwnerID: owner.ID}

	t.Run("assigning a new user succeeds", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, ProjectID: projectID}, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("AddAssignee", mock.Anything, taskID, userID).Return(nil)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Assign(context.Background(), owner, taskID, userID)

		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})

	t.Run("duplicate assignment conflicts", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(&model.Task{
			ID:        taskID,
			ProjectID: projectID,
			Assignees: []model.TaskAssignee{{TaskID: taskID, UserID: userID}},
		}, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Assign(context.Background(), owner, taskID, userID)

		assert.Equal(t, apperrors.ErrAssigneeExists, err)
		mockTasks.AssertNotCalled(t, "AddAssignee", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removing an absent assignee yields not found", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, ProjectID: projectID}, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("RemoveAssignee", mock.Anything, taskID, userID).Return(gorm.ErrRecordNotFound)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Unassign(context.Background(), owner, taskID, userID)

		assert.Equal(t, apperrors.ErrAssigneeNotFound, err)
	})

	t.Run("removing an existing assignee succeeds", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockProjects := new(MockProjectRepository)
		mockTasks.On("FindByID", mock.Anything, taskID).Return(&model.Task{
			ID:        taskID,
			ProjectID: projectID,
			Assignees: []model.TaskAssignee{{TaskID: taskID, UserID: userID}},
		}, nil)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockTasks.On("RemoveAssignee", mock.Anything, taskID, userID).Return(nil)

		service := NewTaskService(mockTasks, mockProjects)
		err := service.Unassign(context.Background(), owner, taskID, userID)

		assert.NoError(t, err)
		mockTasks.AssertExpectations(t)
	})
}

func TestTaskService_ListByStatus(t *testing.T) {
	t.Run("unknown status is rejected", func(t *testing.T) {
		service := NewTaskService(new(MockTaskRepository), new(MockProjectRepository))
		_, err := service.ListByStatus(context.Background(), "DONE")
		assert.Equal(t, apperrors.ErrInvalidStatus, err)
	})

	t.Run("valid status is passed through", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("ListByStatus", mock.Anything, model.TaskStatusInProcess).Return([]model.Task{{Title: "T1"}}, nil)

		service := NewTaskService(mockTasks, new(MockProjectRepository))
		tasks, err := service.ListByStatus(context.Background(), "INPROCESS")

		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
		mockTasks.AssertExpectations(t)
	})
}
