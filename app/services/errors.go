package services

import (
	"errors"
	"fmt"

	"modboard/app/models"
	"modboard/app/repositories"
)

// Every service error wraps exactly one of these kinds; callers branch with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, kind, id)
}

func forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// translate maps store errors onto the service taxonomy.
func translate(err error, kind string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(kind, id)
	case errors.Is(err, repositories.ErrDuplicate):
		return conflictf("%s %v already exists", kind, id)
	}
	return err
}

// RequireModerator fails with ErrForbidden unless the actor is a moderator or admin.
func RequireModerator(actor models.Actor) error {
	if !actor.IsModerator() {
		return forbiddenf("moderator role required")
	}
	return nil
}

func requireAdmin(actor models.Actor) error {
	if actor.Role != models.RoleAdmin {
		return forbiddenf("admin role required")
	}
	return nil
}
