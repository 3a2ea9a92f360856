// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package schema builds and tears down the template database that workers
// clone from. Initializing the template once, up front, is what keeps test
// database creation cheap for every worker afterwards.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/hashicorp/parade/internal/db/template"
	"github.com/hashicorp/parade/internal/errors"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5 migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // file:// migration source
	_ "github.com/jackc/pgx/v5/stdlib"                       // postgres driver
)

const driverName = "pgx"

// InitTemplate creates the template database on the server at adminURL and
// applies the configured migrations to it. It returns true if it changed
// anything (created the database or ran at least one migration). A template
// that exists with a dirty migration state is an error unless WithForce is
// set, in which case the template is dropped and rebuilt.
func InitTemplate(ctx context.Context, adminURL string, opt ...Option) (bool, error) {
	const op = "schema.InitTemplate"
	opts := getOpts(opt...)
	if adminURL == "" {
		return false, errors.New(ctx, errors.InvalidParameter, op, "missing admin url")
	}
	if err := template.ValidateIdentifier(opts.withTemplate); err != nil {
		return false, errors.New(ctx, errors.InvalidParameter, op, "invalid template name", errors.WithWrap(err))
	}

	st, err := CurrentState(ctx, adminURL, opt...)
	if err != nil {
		return false, errors.Wrap(ctx, err, op)
	}

	var changed bool
	if st.Exists {
		switch {
		case st.Dirty && !opts.withForce:
			return false, errors.New(ctx, errors.MigrationIntegrity, op,
				fmt.Sprintf("template database %s has a failed migration applied to it", opts.withTemplate))
		case opts.withForce:
			if err := DestroyTemplate(ctx, adminURL, opt...); err != nil {
				return false, errors.Wrap(ctx, err, op)
			}
			st.Exists = false
		}
	}

	db, err := open(ctx, opts, adminURL)
	if err != nil {
		return false, errors.New(ctx, errors.Unavailable, op, "could not connect to database", errors.WithWrap(err))
	}
	defer db.Close()

	if !st.Exists {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("create database %s", opts.withTemplate)); err != nil {
			return false, errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not create template database"))
		}
		changed = true
	}

	if opts.withMigrationsURL != "" {
		templateURL, err := template.DatabaseURL(adminURL, opts.withTemplate)
		if err != nil {
			return false, errors.New(ctx, errors.InvalidParameter, op, "could not build template database url", errors.WithWrap(err))
		}
		migrated, err := opts.withMigrateFunc(ctx, opts.withMigrationsURL, templateURL)
		if err != nil {
			return false, errors.Wrap(ctx, err, op)
		}
		changed = changed || migrated
	}

	if !st.IsTemplate {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("alter database %s is_template true", opts.withTemplate)); err != nil {
			return false, errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not mark database as template"))
		}
	}

	return changed, nil
}

// DestroyTemplate unmarks the template database and drops it. Dropping
// requires unmarking first; postgres refuses to drop a database while
// datistemplate is set.
func DestroyTemplate(ctx context.Context, adminURL string, opt ...Option) error {
	const op = "schema.DestroyTemplate"
	opts := getOpts(opt...)
	if adminURL == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing admin url")
	}
	if err := template.ValidateIdentifier(opts.withTemplate); err != nil {
		return errors.New(ctx, errors.InvalidParameter, op, "invalid template name", errors.WithWrap(err))
	}

	db, err := open(ctx, opts, adminURL)
	if err != nil {
		return errors.New(ctx, errors.Unavailable, op, "could not connect to database", errors.WithWrap(err))
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("alter database %s is_template false", opts.withTemplate)); err != nil {
		return errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not unmark template database"))
	}

	mOpt := []template.Option{template.WithTemplate(template.Template1)}
	if opts.withOpenFunc != nil {
		mOpt = append(mOpt, template.WithOpenFunc(opts.withOpenFunc))
	}
	m, err := template.NewManager(ctx, adminURL, mOpt...)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if err := m.DropDatabase(ctx, opts.withTemplate); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}

// State reports where a template database is in its lifecycle.
type State struct {
	// TemplateName is the name of the template database.
	TemplateName string

	// Exists is true if the database exists on the server.
	Exists bool

	// IsTemplate is true if the database is marked with datistemplate.
	IsTemplate bool

	// InitializationStarted is true if migrations have been applied, fully or
	// partially.
	InitializationStarted bool

	// SchemaVersion is the currently applied migration version. Only valid
	// when InitializationStarted is true.
	SchemaVersion uint

	// Dirty is true if the last migration applied to the database failed.
	Dirty bool
}

// CurrentState inspects the server at adminURL and reports the lifecycle
// state of the configured template database.
func CurrentState(ctx context.Context, adminURL string, opt ...Option) (*State, error) {
	const op = "schema.CurrentState"
	opts := getOpts(opt...)
	if adminURL == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing admin url")
	}

	s := &State{TemplateName: opts.withTemplate}

	db, err := open(ctx, opts, adminURL)
	if err != nil {
		return nil, errors.New(ctx, errors.Unavailable, op, "could not connect to database", errors.WithWrap(err))
	}
	defer db.Close()

	row := db.QueryRowContext(ctx, "select datistemplate from pg_database where datname = $1", s.TemplateName)
	switch err := row.Scan(&s.IsTemplate); {
	case stderrors.Is(err, sql.ErrNoRows):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not query pg_database"))
	}
	s.Exists = true

	templateURL, err := template.DatabaseURL(adminURL, s.TemplateName)
	if err != nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "could not build template database url", errors.WithWrap(err))
	}
	tdb, err := open(ctx, opts, templateURL)
	if err != nil {
		return nil, errors.New(ctx, errors.Unavailable, op, "could not connect to template database", errors.WithWrap(err))
	}
	defer tdb.Close()

	row = tdb.QueryRowContext(ctx, "select version, dirty from schema_migrations")
	switch err := row.Scan(&s.SchemaVersion, &s.Dirty); {
	case stderrors.Is(err, sql.ErrNoRows):
		// table exists but is empty, nothing fully applied yet
		s.InitializationStarted = true
		return s, nil
	case errors.IsMissingTableError(errors.Convert(ctx, err)):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(ctx, errors.Convert(ctx, err), op, errors.WithMsg("could not query schema_migrations"))
	}
	s.InitializationStarted = true

	return s, nil
}

func open(ctx context.Context, opts options, url string) (*sql.DB, error) {
	if opts.withOpenFunc != nil {
		return opts.withOpenFunc(ctx, url)
	}
	return sql.Open(driverName, url)
}

// runMigrations applies all up migrations from sourceURL to the database at
// dbURL. It returns true if any migration ran.
func runMigrations(ctx context.Context, sourceURL, dbURL string) (bool, error) {
	const op = "schema.runMigrations"
	mURL, err := migrateURL(dbURL)
	if err != nil {
		return false, errors.New(ctx, errors.InvalidParameter, op, "invalid database url", errors.WithWrap(err))
	}
	m, err := migrate.New(sourceURL, mURL)
	if err != nil {
		return false, errors.New(ctx, errors.InvalidConfiguration, op, "could not open migration source", errors.WithWrap(err))
	}
	defer m.Close()

	ran := true
	if err := m.Up(); err != nil {
		if !stderrors.Is(err, migrate.ErrNoChange) {
			return false, errors.New(ctx, errors.MigrationIntegrity, op, "migration failed", errors.WithWrap(err))
		}
		ran = false
	}
	if _, dirty, err := m.Version(); err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return false, errors.New(ctx, errors.MigrationIntegrity, op, "could not read migration version", errors.WithWrap(err))
	} else if dirty {
		return false, errors.New(ctx, errors.MigrationIntegrity, op, "database left dirty after migration")
	}
	return ran, nil
}

// migrateURL rewrites a postgres:// url to the scheme the pgx/v5 migrate
// driver registers itself under.
func migrateURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	u.Scheme = "pgx5"
	return u.String(), nil
}
