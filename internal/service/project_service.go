package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamboard/internal/auth"
	"teamboard/internal/cache"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const projectCacheTTL = 5 * time.Minute

// CreateProjectInput carries the fields for project creation. Status
// defaults to PENDING when empty.
type CreateProjectInput struct {
	Title       string
	Description string
	Status      string
	MemberIDs   []uuid.UUID
}

// UpdateProjectInput carries the fields for project update. An empty
// Status leaves the stored status unchanged. ReplaceMembers marks that
// MemberIDs was supplied: the full membership set is replaced, not
// merged.
type UpdateProjectInput struct {
	Title          string
	Description    string
	Status         string
	MemberIDs      []uuid.UUID
	ReplaceMembers bool
}

// ProjectService owns the project/team consistency rules: ownership
// checks on mutation and wholesale membership replacement.
type ProjectService interface {
	Create(ctx context.Context, caller auth.Identity, in CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
}

type projectService struct {
	repo  repository.ProjectRepository
	cache *cache.Client
}

// NewProjectService creates a new project service.
func NewProjectService(repo repository.ProjectRepository, cache *cache.Client) ProjectService {
	return &projectService{repo: repo, cache: cache}
}

func (s *projectService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("project:%s", id)
}

func (s *projectService) Create(ctx context.Context, caller auth.Identity, in CreateProjectInput) (*model.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	status := model.ProjectStatusPending
	if in.Status != "" {
		parsed, ok := model.ParseProjectStatus(in.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		status = parsed
	}

	project := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		OwnerID:     caller.ID,
	}

	if err := s.repo.Create(ctx, project, in.MemberIDs); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return s.Get(ctx, project.ID)
}

func (s *projectService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	if err := requireOwner(project, caller.ID); err != nil {
		return nil, err
	}

	project.Title = in.Title
	project.Description = in.Description
	if in.Status != "" {
		parsed, ok := model.ParseProjectStatus(in.Status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		project.Status = parsed
	}

	if err := s.repo.Update(ctx, project, in.MemberIDs, in.ReplaceMembers); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.Get(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("find project: %w", err)
	}

	if err := requireOwner(project, caller.ID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	if payload, err := json.Marshal(project); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, projectCacheTTL)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
