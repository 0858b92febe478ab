// Package storage declares the persistence interface implemented by the
// database backends, together with the sentinel errors they translate
// store-level faults into.
package storage

import (
	"context"
	"errors"

	"github.com/patric-chuzhbe/shortlinks/internal/shortlink"
	"github.com/patric-chuzhbe/shortlinks/internal/user"
)

var (
	// ErrShortKeyExists is returned when inserting a short link whose key
	// violates the unique constraint on short_url.
	ErrShortKeyExists = errors.New("short URL already exists")

	// ErrEmailExists is returned when inserting a user whose email
	// violates the unique constraint on users.email.
	ErrEmailExists = errors.New("user with this email already exists")
)

type UserKeeper interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*user.User, error)

	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)

	// FindUserByEmailWithPassword behaves like FindUserByEmail but also
	// populates the normally omitted PasswordHash field.
	FindUserByEmailWithPassword(ctx context.Context, email string) (*user.User, bool, error)

	FindUserByID(ctx context.Context, id string) (*user.User, bool, error)
}

type LinksKeeper interface {
	// SaveShortLink inserts a new short link. userID is nil for anonymous links.
	SaveShortLink(ctx context.Context, fullURL, shortKey string, userID *string) error

	// FindShortLinkByKey is a plain lookup with no side effects.
	FindShortLinkByKey(ctx context.Context, shortKey string) (*shortlink.ShortLink, bool, error)

	// GetAndIncrementClicks atomically finds the link and increments its
	// click counter in a single operation, returning the updated record.
	GetAndIncrementClicks(ctx context.Context, shortKey string) (*shortlink.ShortLink, bool, error)

	GetUserLinks(ctx context.Context, userID string) ([]shortlink.ShortLink, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Storage interface {
	UserKeeper
	LinksKeeper
	Pinger
	Close() error
}
