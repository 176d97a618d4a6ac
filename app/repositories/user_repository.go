package repositories

import (
	"errors"
	"strconv"

	"modboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository inside one badger transaction
type BadgerUserRepository struct {
	txn *badger.Txn
}

func clerkKey(clerkID string) []byte {
	return []byte(userClerkIndex + clerkID)
}

func nicknameKey(nickname string) []byte {
	return []byte(userNickIndex + models.NormalizeNickname(nickname))
}

// claim points a unique index key at id, failing if another user holds it.
func (r *BadgerUserRepository) claim(key []byte, id int) error {
	owner, err := getIDRef(r.txn, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return r.txn.Set(key, []byte(strconv.Itoa(id)))
	case err != nil:
		return err
	case owner != id:
		return ErrDuplicate
	}
	return nil
}

// Create saves a new user, enforcing unique clerk id and nickname
func (r *BadgerUserRepository) Create(user *models.User) error {
	taken, err := exists(r.txn, clerkKey(user.ClerkID))
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	taken, err = exists(r.txn, nicknameKey(user.Nickname))
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}

	id, err := getNextID(r.txn, UserSeqKey)
	if err != nil {
		return err
	}
	user.ID = id

	if err := r.claim(clerkKey(user.ClerkID), id); err != nil {
		return err
	}
	if err := r.claim(nicknameKey(user.Nickname), id); err != nil {
		return err
	}
	return putEntity(r.txn, entityKey(UserKeyPrefix, id), user)
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	if err := getEntity(r.txn, entityKey(UserKeyPrefix, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByClerkID retrieves a user by external identity reference
func (r *BadgerUserRepository) GetByClerkID(clerkID string) (*models.User, error) {
	id, err := getIDRef(r.txn, clerkKey(clerkID))
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByNickname retrieves a user by nickname, ignoring case
func (r *BadgerUserRepository) GetByNickname(nickname string) (*models.User, error) {
	id, err := getIDRef(r.txn, nicknameKey(nickname))
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// List retrieves every user
func (r *BadgerUserRepository) List() ([]*models.User, error) {
	var users []*models.User
	err := scanEntities(r.txn, []byte(UserKeyPrefix), func(val []byte) error {
		var user models.User
		if err := unmarshalEntity(val, &user); err != nil {
			return err
		}
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update overwrites an existing user, moving its nickname index when it changed.
// The clerk id is immutable.
func (r *BadgerUserRepository) Update(user *models.User) error {
	existing, err := r.GetByID(user.ID)
	if err != nil {
		return err
	}
	user.ClerkID = existing.ClerkID

	oldKey := nicknameKey(existing.Nickname)
	newKey := nicknameKey(user.Nickname)
	if string(oldKey) != string(newKey) {
		if err := r.claim(newKey, user.ID); err != nil {
			return err
		}
		if err := r.txn.Delete(oldKey); err != nil {
			return err
		}
	}
	return putEntity(r.txn, entityKey(UserKeyPrefix, user.ID), user)
}
