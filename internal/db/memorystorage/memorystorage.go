// Package memorystorage provides a mutex-guarded in-memory implementation of
// the storage interface. It backs the service when no database DSN is
// configured and is the storage of choice in tests.
package memorystorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
	"github.com/patric-chuzhbe/shortlinks/internal/shortlink"
	"github.com/patric-chuzhbe/shortlinks/internal/user"
)

// MemoryStorage keeps users and short links in maps keyed the same way the
// database indexes are: users by email and ID, links by short key.
type MemoryStorage struct {
	mu           sync.Mutex
	usersByID    map[string]*user.User
	usersByEmail map[string]*user.User
	linksByKey   map[string]*shortlink.ShortLink
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		usersByID:    map[string]*user.User{},
		usersByEmail: map[string]*user.User{},
		linksByKey:   map[string]*shortlink.ShortLink{},
	}, nil
}

// CreateUser stores a new user, generating a UUID for it.
// Returns storage.ErrEmailExists when the email is already registered.
func (theStorage *MemoryStorage) CreateUser(
	ctx context.Context,
	name,
	email,
	passwordHash string,
) (*user.User, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.usersByEmail[email]; exists {
		return nil, storage.ErrEmailExists
	}

	usr := &user.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	theStorage.usersByID[usr.ID] = usr
	theStorage.usersByEmail[usr.Email] = usr

	result := *usr
	result.PasswordHash = ""

	return &result, nil
}

func (theStorage *MemoryStorage) FindUserByEmail(
	ctx context.Context,
	email string,
) (*user.User, bool, error) {
	return theStorage.findUserByEmail(email, false)
}

// FindUserByEmailWithPassword also populates the PasswordHash field.
func (theStorage *MemoryStorage) FindUserByEmailWithPassword(
	ctx context.Context,
	email string,
) (*user.User, bool, error) {
	return theStorage.findUserByEmail(email, true)
}

func (theStorage *MemoryStorage) FindUserByID(
	ctx context.Context,
	id string,
) (*user.User, bool, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	usr, found := theStorage.usersByID[id]
	if !found {
		return nil, false, nil
	}

	result := *usr
	result.PasswordHash = ""

	return &result, true, nil
}

// SaveShortLink stores a new short link.
// Returns storage.ErrShortKeyExists when the key is already taken.
func (theStorage *MemoryStorage) SaveShortLink(
	ctx context.Context,
	fullURL,
	shortKey string,
	userID *string,
) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.linksByKey[shortKey]; exists {
		return storage.ErrShortKeyExists
	}

	theStorage.linksByKey[shortKey] = &shortlink.ShortLink{
		ID:        uuid.New().String(),
		FullURL:   fullURL,
		ShortURL:  shortKey,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	return nil
}

func (theStorage *MemoryStorage) FindShortLinkByKey(
	ctx context.Context,
	shortKey string,
) (*shortlink.ShortLink, bool, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	link, found := theStorage.linksByKey[shortKey]
	if !found {
		return nil, false, nil
	}

	result := *link

	return &result, true, nil
}

// GetAndIncrementClicks finds the link and increments its click counter
// under a single mutex hold, so concurrent redirects each register
// exactly one click.
func (theStorage *MemoryStorage) GetAndIncrementClicks(
	ctx context.Context,
	shortKey string,
) (*shortlink.ShortLink, bool, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	link, found := theStorage.linksByKey[shortKey]
	if !found {
		return nil, false, nil
	}

	link.Clicks++
	result := *link

	return &result, true, nil
}

func (theStorage *MemoryStorage) GetUserLinks(
	ctx context.Context,
	userID string,
) ([]shortlink.ShortLink, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	result := []shortlink.ShortLink{}
	for _, link := range theStorage.linksByKey {
		if link.UserID != nil && *link.UserID == userID {
			result = append(result, *link)
		}
	}

	return result, nil
}

func (theStorage *MemoryStorage) findUserByEmail(email string, withPassword bool) (*user.User, bool, error) {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	usr, found := theStorage.usersByEmail[email]
	if !found {
		return nil, false, nil
	}

	result := *usr
	if !withPassword {
		result.PasswordHash = ""
	}

	return &result, true, nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
