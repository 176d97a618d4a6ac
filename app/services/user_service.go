package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"modboard/app/models"
	"modboard/app/repositories"
)

// UserService is the directory of members keyed by their identity-provider id.
type UserService struct {
	store repositories.Store
}

// NewUserService creates a new UserService
func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store}
}

// GetOrCreateByClerkID returns the user linked to clerkID, registering a new
// USER with a generated nickname the first time the identity is seen.
func (s *UserService) GetOrCreateByClerkID(clerkID string) (models.User, error) {
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return models.User{}, validationErrorf("clerk id is required")
	}
	user, err := s.GetByClerkID(clerkID)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return user, err
	}

	err = s.store.Update(func(tx repositories.Tx) error {
		existing, err := tx.Users().GetByClerkID(clerkID)
		if err == nil {
			user = *existing
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		nickname, err := freeNickname(tx)
		if err != nil {
			return err
		}
		user = models.User{ClerkID: clerkID, Nickname: nickname, Role: models.RoleUser}
		user.BeforeCreate()
		return translate(tx.Users().Create(&user), "user", clerkID)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// freeNickname picks the first unused "user<N>", starting after the user count.
func freeNickname(tx repositories.Tx) (string, error) {
	users, err := tx.Users().List()
	if err != nil {
		return "", err
	}
	for n := len(users) + 1; ; n++ {
		candidate := fmt.Sprintf("user%d", n)
		_, err := tx.Users().GetByNickname(candidate)
		if errors.Is(err, repositories.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// CreateUser registers a user explicitly, as the seed command does.
func (s *UserService) CreateUser(input models.User) (models.User, error) {
	user := models.User{
		ClerkID:        strings.TrimSpace(input.ClerkID),
		Name:           plainText(input.Name),
		Nickname:       plainText(input.Nickname),
		Email:          strings.TrimSpace(input.Email),
		ProfilePicture: strings.TrimSpace(input.ProfilePicture),
		Role:           input.Role,
		CreatedAt:      input.CreatedAt,
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return models.User{}, validationErrorf("invalid user: %v", err)
	}
	err := s.store.Update(func(tx repositories.Tx) error {
		if err := tx.Users().Create(&user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return conflictf("clerk id %q or nickname %q is already taken", user.ClerkID, user.Nickname)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetByClerkID looks a user up by identity-provider id.
func (s *UserService) GetByClerkID(clerkID string) (models.User, error) {
	var user models.User
	err := s.store.View(func(tx repositories.Tx) error {
		u, err := tx.Users().GetByClerkID(clerkID)
		if err != nil {
			return translate(err, "user", clerkID)
		}
		user = *u
		return nil
	})
	return user, err
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id int) (models.User, error) {
	var user models.User
	err := s.store.View(func(tx repositories.Tx) error {
		u, err := tx.Users().GetByID(id)
		if err != nil {
			return translate(err, "user", id)
		}
		user = *u
		return nil
	})
	return user, err
}

// ListUsers returns every user ordered by id. Moderators only.
func (s *UserService) ListUsers(actor models.Actor) ([]models.User, error) {
	if err := RequireModerator(actor); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.store.View(func(tx repositories.Tx) error {
		us, err := tx.Users().List()
		if err != nil {
			return err
		}
		users = values(us)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateNickname renames a user. Users rename themselves; admins rename anyone.
// Nicknames are unique regardless of case.
func (s *UserService) UpdateNickname(clerkID, nickname string, actor models.Actor) (models.User, error) {
	nickname = plainText(nickname)
	if nickname == "" {
		return models.User{}, validationErrorf("nickname is required")
	}

	var user models.User
	err := s.store.Update(func(tx repositories.Tx) error {
		u, err := tx.Users().GetByClerkID(clerkID)
		if err != nil {
			return translate(err, "user", clerkID)
		}
		if actor.UserID != u.ID && actor.Role != models.RoleAdmin {
			return forbiddenf("cannot change the nickname of another user")
		}
		taken, err := tx.Users().GetByNickname(nickname)
		switch {
		case err == nil && taken.ID != u.ID:
			return conflictf("nickname %q is already taken", nickname)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}
		u.Nickname = nickname
		if err := u.Validate(); err != nil {
			return validationErrorf("invalid nickname: %v", err)
		}
		if err := tx.Users().Update(u); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return conflictf("nickname %q is already taken", nickname)
			}
			return translate(err, "user", clerkID)
		}
		user = *u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateRole changes the role of a user. Admins only.
func (s *UserService) UpdateRole(clerkID, role string, actor models.Actor) (models.User, error) {
	newRole, ok := models.ParseRole(role)
	if !ok {
		return models.User{}, validationErrorf("role must be USER, MODERATOR or ADMIN, got %q", role)
	}

	var user models.User
	err := s.store.Update(func(tx repositories.Tx) error {
		u, err := tx.Users().GetByClerkID(clerkID)
		if err != nil {
			return translate(err, "user", clerkID)
		}
		if err := requireAdmin(actor); err != nil {
			return err
		}
		if u.Role != newRole {
			u.Role = newRole
			if err := tx.Users().Update(u); err != nil {
				return translate(err, "user", clerkID)
			}
		}
		user = *u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
