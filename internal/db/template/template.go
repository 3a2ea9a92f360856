// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package template provisions throwaway Postgres databases by cloning a
// template database. Cloning a template is a file-level copy inside the
// server, so a fresh database per worker costs milliseconds instead of the
// seconds a full migration run would take.
package template

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/parade/internal/errors"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
)

const (
	// Postgres is the only supported dialect.
	Postgres = "postgres"

	driverName = "pgx"

	// DefaultTemplate is the template database the manager clones when no
	// other template is configured. It is created by "parade database init".
	DefaultTemplate = "parade_template"

	// Template1 is the empty template every Postgres cluster ships with.
	Template1 = "template1"

	// DefaultDatabasePrefix is prepended to generated database names.
	DefaultDatabasePrefix = "parade_test"
)

var (
	defaultDBPort = "5432"
	defaultDBHost = "127.0.0.1"
)

func init() {
	if p := os.Getenv("PARADE_DB_PORT"); p != "" {
		defaultDBPort = p
	}
	if h := os.Getenv("PARADE_DB_HOST"); h != "" {
		defaultDBHost = h
	}
}

// DefaultURL returns the admin connection url: PARADE_DB_URL when set,
// otherwise a url built from PARADE_DB_HOST/PARADE_DB_PORT with the
// conventional parade credentials.
func DefaultURL() string {
	if u := os.Getenv("PARADE_DB_URL"); u != "" {
		return u
	}
	return fmt.Sprintf("postgres://parade:parade@%s:%s/parade?sslmode=disable", defaultDBHost, defaultDBPort)
}

// validIdentifier matches unquoted postgres identifiers. Database and template
// names are interpolated into "create database" statements, which do not
// accept placeholders, so anything else is rejected up front.
var validIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

const maxIdentifierLen = 63

// ValidateIdentifier reports whether name is safe to use as an unquoted
// postgres identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("empty identifier")
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("identifier %q exceeds %d bytes", name, maxIdentifierLen)
	}
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

const letterBytes = "abcdefghijklmnopqrstuvwxyz"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

func randStr(n int) string {
	b := make([]byte, n)
	// A rand.Int63() generates 63 random bits, enough for letterIdxMax letters!
	for i, cache, remain := n-1, rand.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = rand.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return string(b)
}

// Manager creates and drops databases cloned from a template. A single
// Manager is safe for concurrent use; each call opens its own connections.
type Manager struct {
	adminURL string
	template string
	prefix   string
	open     func(ctx context.Context, url string) (*sql.DB, error)
}

// NewManager creates a Manager for the postgres server at adminURL. The url
// must connect as a role allowed to create databases. Supported options:
// WithTemplate, WithDatabasePrefix, WithDialect.
func NewManager(ctx context.Context, adminURL string, opt ...Option) (*Manager, error) {
	const op = "template.NewManager"
	opts := GetOpts(opt...)
	if opts.withDialect != Postgres {
		return nil, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("unsupported dialect: %s", opts.withDialect))
	}
	if adminURL == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing admin url")
	}
	if _, err := url.Parse(adminURL); err != nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid admin url", errors.WithWrap(err))
	}
	if err := ValidateIdentifier(opts.withTemplate); err != nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid template name", errors.WithWrap(err))
	}
	if err := ValidateIdentifier(opts.withDatabasePrefix); err != nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "invalid database prefix", errors.WithWrap(err))
	}
	m := &Manager{
		adminURL: adminURL,
		template: opts.withTemplate,
		prefix:   opts.withDatabasePrefix,
		open:     opts.withOpenFunc,
	}
	if m.open == nil {
		m.open = sqlOpen
	}
	return m, nil
}

func sqlOpen(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Template returns the template database the manager clones from.
func (m *Manager) Template() string {
	return m.template
}

// CreateDatabase clones the template into a new randomly named database and
// returns a cleanup func that drops it, the url of the new database and its
// name. Callers must run cleanup even when their own work fails; the new
// database is otherwise orphaned on the server.
func (m *Manager) CreateDatabase(ctx context.Context) (cleanup func() error, retURL, dbname string, retErr error) {
	const op = "template.(Manager).CreateDatabase"
	noop := func() error { return nil }

	db, err := m.open(ctx, m.adminURL)
	if err != nil {
		return noop, "", "", errors.New(ctx, errors.Unavailable, op, "could not connect to source database", errors.WithWrap(err))
	}
	defer db.Close()

	dbname = fmt.Sprintf("%s_%s", m.prefix, randStr(16))

	if _, err := db.ExecContext(ctx, fmt.Sprintf("create database %s template %s", dbname, m.template)); err != nil {
		return noop, "", "", errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not create test database"))
	}

	cleanup = func() error {
		return m.DropDatabase(context.Background(), dbname)
	}

	u, err := DatabaseURL(m.adminURL, dbname)
	if err != nil {
		_ = cleanup()
		return noop, "", "", errors.New(ctx, errors.InvalidParameter, op, "could not build test database url", errors.WithWrap(err))
	}

	if err := m.ping(ctx, u); err != nil {
		_ = cleanup()
		return noop, "", "", errors.New(ctx, errors.Unavailable, op, "could not ping test database", errors.WithWrap(err))
	}

	return cleanup, u, dbname, nil
}

// ping retries for a short window; right after create the new database can
// briefly refuse connections while the server finishes the copy.
func (m *Manager) ping(ctx context.Context, url string) error {
	db, err := m.open(ctx, url)
	if err != nil {
		return err
	}
	defer db.Close()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second
	return backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(bo, ctx))
}

const killconns = `
select
  pg_terminate_backend(pg_stat_activity.pid)
from
  pg_stat_activity
where pg_stat_activity.datname = $1
  and pid <> pg_backend_pid();
`

// DropDatabase terminates any connections still open against dbname and drops
// it. Terminating first matters: drop database fails while a leaked test
// connection is alive.
func (m *Manager) DropDatabase(ctx context.Context, dbname string) error {
	const op = "template.(Manager).DropDatabase"
	if err := ValidateIdentifier(dbname); err != nil {
		return errors.New(ctx, errors.InvalidParameter, op, "invalid database name", errors.WithWrap(err))
	}

	db, err := m.open(ctx, m.adminURL)
	if err != nil {
		return errors.New(ctx, errors.Unavailable, op, "could not connect to source database", errors.WithWrap(err))
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, killconns, dbname); err != nil {
		return errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not terminate connections"))
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("drop database %s", dbname)); err != nil {
		return errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not drop test database"))
	}
	return nil
}

// DatabaseURL returns adminURL with its database path swapped for dbname,
// keeping credentials, host and query parameters.
func DatabaseURL(adminURL, dbname string) (string, error) {
	u, err := url.Parse(adminURL)
	if err != nil {
		return "", err
	}
	u.Path = "/" + dbname
	return u.String(), nil
}
