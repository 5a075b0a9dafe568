package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/opsdeck/console-server/internal/random"
	"github.com/opsdeck/console-server/internal/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

var tokenLength = 64

// Driver represents the PostgreSQL session storage driver implementation
type Driver struct {
	dsn string
	db  *pgxpool.Pool
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty PostgreSQL session storage driver.
// Use Initialize to open the database connection.
func New(dsn string) *Driver {
	return &Driver{
		dsn: dsn,
	}
}

// Initialize opens the database connection and migrates the database
func (driver *Driver) Initialize(ctx context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, driver.dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Initialize the database connection pool
	pool, err := pgxpool.Connect(ctx, driver.dsn)
	if err != nil {
		return err
	}
	driver.db = pool

	return nil
}

// GetByRawToken retrieves a session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(ctx context.Context, rawToken string) (*session.Session, error) {
	sql, vals, err := squirrel.Select("token", "session_id", "user_id", "issued_at", "expires", "claims").
		From("sessions").
		Where(squirrel.Eq{"token": session.HashToken(rawToken)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	obj, err := driver.rowToSession(driver.db.QueryRow(ctx, sql, vals...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// Create creates a new session and returns its raw token
func (driver *Driver) Create(ctx context.Context, userID string, claims map[string]string, expires int64) (string, error) {
	rawToken := random.String(tokenLength, random.CharsetTokens)

	if claims == nil {
		claims = map[string]string{}
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	_, err = driver.db.Exec(
		ctx,
		"INSERT INTO sessions VALUES ($1, $2, $3, $4, $5, $6)",
		session.HashToken(rawToken),
		uuid.NewString(),
		userID,
		time.Now().Unix(),
		expires,
		claimsJSON,
	)
	if err != nil {
		return "", err
	}

	return rawToken, nil
}

// TerminateBySessionID terminates a session by its session ID
func (driver *Driver) TerminateBySessionID(ctx context.Context, sessionID string) error {
	_, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE session_id = $1", sessionID)
	return err
}

// TerminateByUserID terminates all sessions of a specific user ID
func (driver *Driver) TerminateByUserID(ctx context.Context, userID string) error {
	_, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	return err
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(ctx context.Context) (int, error) {
	sql, vals, err := squirrel.Delete("sessions").
		Where(squirrel.LtOrEq{"expires": time.Now().Unix()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := driver.db.Exec(ctx, sql, vals...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Close closes the database connection
func (driver *Driver) Close() {
	driver.db.Close()
	driver.db = nil
}

func (driver *Driver) rowToSession(row pgx.Row) (*session.Session, error) {
	obj := new(session.Session)
	var claimsJSON []byte
	if err := row.Scan(&obj.Token, &obj.ID, &obj.UserID, &obj.IssuedAt, &obj.Expires, &claimsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(claimsJSON, &obj.Claims); err != nil {
		return nil, err
	}
	return obj, nil
}
