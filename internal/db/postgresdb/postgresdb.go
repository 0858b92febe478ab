// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface for persisting users and short links. Schema management is done
// with goose migrations; uniqueness of emails and short keys is enforced by
// unique indexes and surfaced as the storage package's conflict errors.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
	"github.com/patric-chuzhbe/shortlinks/internal/shortlink"
	"github.com/patric-chuzhbe/shortlinks/internal/user"
)

const uniqueViolationCode = "23505"

// PostgresDB is a PostgreSQL-backed implementation of the storage interface.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(ctx); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `result.Ping()` calling: %w",
				err,
			)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// CreateUser inserts a new user record and returns it with the
// store-generated ID. The password hash is not echoed back.
func (db *PostgresDB) CreateUser(
	ctx context.Context,
	name,
	email,
	passwordHash string,
) (*user.User, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			INSERT INTO users (name, email, password_hash)
				VALUES ($1, $2, $3)
				RETURNING id, created_at
		`,
		name,
		email,
		passwordHash,
	)

	usr := &user.User{
		Name:  name,
		Email: email,
	}
	if err := row.Scan(&usr.ID, &usr.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrEmailExists
		}
		return nil, err
	}

	return usr, nil
}

func (db *PostgresDB) FindUserByEmail(
	ctx context.Context,
	email string,
) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, created_at FROM users WHERE email = $1`,
		email,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

// FindUserByEmailWithPassword behaves like FindUserByEmail but also selects
// the password hash, which is needed only by the login flow.
func (db *PostgresDB) FindUserByEmailWithPassword(
	ctx context.Context,
	email string,
) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.PasswordHash, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

func (db *PostgresDB) FindUserByID(
	ctx context.Context,
	id string,
) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = $1`,
		id,
	)

	usr := &user.User{}
	err := row.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return usr, true, nil
}

// SaveShortLink inserts a new short link. A duplicate short key is reported
// as storage.ErrShortKeyExists via the unique index on short_url.
func (db *PostgresDB) SaveShortLink(
	ctx context.Context,
	fullURL,
	shortKey string,
	userID *string,
) error {
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO short_links (full_url, short_url, user_id) VALUES ($1, $2, $3)`,
		fullURL,
		shortKey,
		userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrShortKeyExists
		}
		return err
	}

	return nil
}

// FindShortLinkByKey is a plain lookup used for the custom slug
// availability pre-check. It does not touch the click counter.
func (db *PostgresDB) FindShortLinkByKey(
	ctx context.Context,
	shortKey string,
) (*shortlink.ShortLink, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			SELECT id, full_url, short_url, clicks, user_id, created_at
				FROM short_links
				WHERE short_url = $1
		`,
		shortKey,
	)

	return scanShortLink(row)
}

// GetAndIncrementClicks finds the link and increments its click counter in a
// single UPDATE ... RETURNING statement. Concurrent redirects to the same key
// each register exactly one click with no lost updates.
func (db *PostgresDB) GetAndIncrementClicks(
	ctx context.Context,
	shortKey string,
) (*shortlink.ShortLink, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			UPDATE short_links
				SET clicks = clicks + 1
				WHERE short_url = $1
				RETURNING id, full_url, short_url, clicks, user_id, created_at
		`,
		shortKey,
	)

	return scanShortLink(row)
}

// GetUserLinks retrieves all short links owned by the given user.
func (db *PostgresDB) GetUserLinks(
	ctx context.Context,
	userID string,
) ([]shortlink.ShortLink, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, full_url, short_url, clicks, user_id, created_at
				FROM short_links
				WHERE user_id = $1
		`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []shortlink.ShortLink{}
	for rows.Next() {
		var link shortlink.ShortLink
		err = rows.Scan(
			&link.ID,
			&link.FullURL,
			&link.ShortURL,
			&link.Clicks,
			&link.UserID,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		result = append(result, link)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Ping verifies the database connection within the configured timeout.
func (db *PostgresDB) Ping(outerCtx context.Context) error {
	ctx, cancel := context.WithTimeout(outerCtx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func scanShortLink(row *sql.Row) (*shortlink.ShortLink, bool, error) {
	link := &shortlink.ShortLink{}
	err := row.Scan(
		&link.ID,
		&link.FullURL,
		&link.ShortURL,
		&link.Clicks,
		&link.UserID,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return link, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
