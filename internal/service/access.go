package service

import (
	"github.com/google/uuid"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
)

// requireOwner gates project mutations: only the owning user may update
// or delete a project.
func requireOwner(project *model.Project, callerID uuid.UUID) error {
	if project.OwnerID != callerID {
		return apperrors.ErrNotOwner
	}
	return nil
}

// requireProjectAccess gates task mutations: the caller must own the
// project or belong to its team. The project's Members relation must be
// loaded.
func requireProjectAccess(project *model.Project, callerID uuid.UUID) error {
	if project.OwnerID == callerID || project.HasMember(callerID) {
		return nil
	}
	return apperrors.ErrNotProjectMember
}
