// Package service implements the domain operations of the URL shortener:
// short link creation (anonymous and owned), registration, login, redirect
// resolution, and listing of a user's links.
package service

import (
	"context"
	"errors"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/shortlinks/internal/auth"
	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
	"github.com/patric-chuzhbe/shortlinks/internal/keygen"
	"github.com/patric-chuzhbe/shortlinks/internal/models"
	"github.com/patric-chuzhbe/shortlinks/internal/shortlink"
	"github.com/patric-chuzhbe/shortlinks/internal/user"
)

var (
	// ErrEmailTaken is returned by RegisterUser when the email is already registered.
	ErrEmailTaken = errors.New("user already exists")

	// ErrSlugTaken is returned by CreateShortLink when the requested custom slug is in use.
	ErrSlugTaken = errors.New("this custom URL already exists")

	// ErrInvalidCredentials is returned by LoginUser for an unknown email or a
	// wrong password alike, so callers cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrShortURLNotFound is returned by ResolveShortURL for an unknown short key.
	ErrShortURLNotFound = errors.New("short URL not found")
)

type userKeeper interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
	FindUserByEmailWithPassword(ctx context.Context, email string) (*user.User, bool, error)
}

type linksKeeper interface {
	SaveShortLink(ctx context.Context, fullURL, shortKey string, userID *string) error
	FindShortLinkByKey(ctx context.Context, shortKey string) (*shortlink.ShortLink, bool, error)
	GetAndIncrementClicks(ctx context.Context, shortKey string) (*shortlink.ShortLink, bool, error)
	GetUserLinks(ctx context.Context, userID string) ([]shortlink.ShortLink, error)
}

type serviceStorage interface {
	userKeeper
	linksKeeper
}

type tokenBuilder interface {
	BuildToken(userID string) (string, error)
}

type Service struct {
	db             serviceStorage
	tokens         tokenBuilder
	shortKeyLength int
}

func New(db serviceStorage, tokens tokenBuilder, shortKeyLength int) *Service {
	return &Service{
		db:             db,
		tokens:         tokens,
		shortKeyLength: shortKeyLength,
	}
}

// CreateShortLink persists a new short link and returns its short key.
// An empty userID creates an anonymous link. A non-empty slug is used as the
// key after an availability pre-check; the pre-check is advisory only - two
// concurrent callers can both pass it, and then the storage unique constraint
// decides, so an insert conflict is authoritative even after a passed check.
func (s *Service) CreateShortLink(ctx context.Context, fullURL, userID, slug string) (string, error) {
	shortKey := slug
	if shortKey == "" {
		var err error
		shortKey, err = keygen.NewKey(s.shortKeyLength)
		if err != nil {
			return "", err
		}
	} else {
		_, found, err := s.db.FindShortLinkByKey(ctx, slug)
		if err != nil {
			return "", err
		}
		if found {
			return "", ErrSlugTaken
		}
	}

	var owner *string
	if userID != "" {
		owner = &userID
	}

	if err := s.db.SaveShortLink(ctx, fullURL, shortKey, owner); err != nil {
		if slug != "" && errors.Is(err, storage.ErrShortKeyExists) {
			return "", ErrSlugTaken
		}
		return "", err
	}

	return shortKey, nil
}

// RegisterUser creates a new account and returns it along with a signed token.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*user.User, string, error) {
	_, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if found {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := s.db.CreateUser(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.BuildToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// LoginUser authenticates by email and password and returns the user along
// with a signed token. Unknown email and wrong password produce the same error.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*user.User, string, error) {
	usr, found, err := s.db.FindUserByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if !found || !auth.CheckPassword(usr.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.BuildToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	usr.PasswordHash = ""

	return usr, token, nil
}

// ResolveShortURL atomically increments the click counter of the link with
// the given key and returns its destination URL.
func (s *Service) ResolveShortURL(ctx context.Context, shortKey string) (string, error) {
	link, found, err := s.db.GetAndIncrementClicks(ctx, shortKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrShortURLNotFound
	}

	return link.FullURL, nil
}

// GetUserUrls returns all links owned by the user, with short keys rendered
// through the given formatter.
func (s *Service) GetUserUrls(
	ctx context.Context,
	userID string,
	shortURLFormatter models.URLFormatter,
) (models.UserUrls, error) {
	formatter := func(str string) string { return str }
	if shortURLFormatter != nil {
		formatter = shortURLFormatter
	}

	links, err := s.db.GetUserLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := funk.Map(links, func(link shortlink.ShortLink) models.UserURL {
		return models.UserURL{
			ShortURL:    formatter(link.ShortURL),
			OriginalURL: link.FullURL,
			Clicks:      link.Clicks,
		}
	}).([]models.UserURL)

	return result, nil
}
