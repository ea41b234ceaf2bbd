/*
 * Copyright 2025 the pinrex authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Revision is one versioned SQL file under the revision directory.
type Revision struct {
	Version    string
	Slug       string
	Path       string
	Statements []string
}

// RevisionStatus summarizes applied and pending revisions.
type RevisionStatus struct {
	Applied []Migration
	Pending []Revision
}

// RevisionManager generates versioned SQL revision files by diffing the
// registered models against the live database, and applies pending files in
// version order. Applied versions are tracked in pinrex_migrations with a
// "revision:" prefix so they never run twice.
type RevisionManager struct {
	db     *bun.DB
	logger Logger
	dir    string
}

const revisionVersionPrefix = "revision:"

var revisionFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// NewRevisionManager creates a manager writing to and reading from dir.
func NewRevisionManager(db *bun.DB, logger Logger, dir string) *RevisionManager {
	if dir == "" {
		dir = "migrations"
		if globalConfig != nil && globalConfig.DataMigrateConfig.RevisionDir != "" {
			dir = globalConfig.DataMigrateConfig.RevisionDir
		}
	}
	return &RevisionManager{db: db, logger: logger, dir: dir}
}

// Dir returns the revision directory.
func (rm *RevisionManager) Dir() string {
	return rm.dir
}

// GenerateRevision diffs every registered model against the live database and
// writes one revision file containing the statements needed to close the gap.
// Returns nil when the database already matches the declared models.
//
// Tables that do not exist yet are created without inline unique groups;
// every unique group is emitted as a separate CREATE UNIQUE INDEX so
// multi-column groups keep their composite meaning. Foreign keys for freshly
// created tables follow the dialect: on postgres they are emitted as named
// ALTER TABLE statements after all tables, while sqlite (which cannot add
// constraints to an existing table) gets them inlined into the CREATE TABLE
// definitions when foreign keys are enabled.
func (rm *RevisionManager) GenerateRevision(ctx context.Context, slug string) (*Revision, error) {
	if rm.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	slug = normalizeSlug(slug)
	if slug == "" {
		slug = "auto"
	}

	dialect := dialectName(rm.db)
	inlineForeignKeys := dialect == "sqlite" &&
		globalConfig != nil && globalConfig.DataMigrateConfig.EnableForeignKey
	var stmts []string
	var createdTables []string

	for _, model := range RegisteredModelInstances() {
		schema, err := resolveTableSchema(model, dialect)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve table schema %T: %w", model, err)
		}

		exists, err := rm.tableExists(ctx, schema.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", schema.Name, err)
		}

		if !exists {
			if inlineForeignKeys {
				attachInlineForeignKeys(schema)
			}
			stmts = append(stmts, buildCreateTableSQL(dialect, schema))
			stmts = append(stmts, buildUniqueIndexSQLs(schema)...)
			createdTables = append(createdTables, schema.Name)
			continue
		}

		existingCols, err := listExistingColumns(ctx, rm.db, schema.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to query existing columns %s: %w", schema.Name, err)
		}
		existingIdx, err := listExistingIndexes(ctx, rm.db, schema.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to query existing indexes %s: %w", schema.Name, err)
		}

		stmts = append(stmts, planColumns(dialect, schema.Name, schema.columnMap(), existingCols)...)
		stmts = append(stmts, planIndexes(dialect, schema.Name, schema.Uniques, existingIdx)...)
	}

	if dialect == "postgres" || dialect == "pg" {
		for _, table := range createdTables {
			for _, fk := range RegisteredForeignKeyConstraints() {
				if strings.EqualFold(fk.Table, table) {
					stmts = append(stmts, fk.GenerateSQL())
				}
			}
		}
	}

	if len(stmts) == 0 {
		if rm.logger != nil {
			rm.logger.Info("Database schema matches declared models, no revision generated")
		}
		return nil, nil
	}

	version, err := rm.nextVersion()
	if err != nil {
		return nil, err
	}

	rev := &Revision{
		Version:    version,
		Slug:       slug,
		Path:       filepath.Join(rm.dir, fmt.Sprintf("%s_%s.sql", version, slug)),
		Statements: stmts,
	}
	if err := rm.writeRevisionFile(rev); err != nil {
		return nil, err
	}
	if rm.logger != nil {
		rm.logger.Info("Revision generated", "version", rev.Version, "path", rev.Path, "statements", len(rev.Statements))
	}
	return rev, nil
}

func (rm *RevisionManager) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	var err error
	switch dialectName(rm.db) {
	case "postgres", "pg":
		err = rm.db.QueryRowContext(ctx,
			`SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`, table).Scan(&n)
	default:
		err = rm.db.QueryRowContext(ctx,
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (rm *RevisionManager) nextVersion() (string, error) {
	version := time.Now().UTC().Format("20060102150405")
	existing, err := rm.listRevisionFiles()
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		taken[r.Version] = struct{}{}
	}
	for {
		if _, ok := taken[version]; !ok {
			return version, nil
		}
		n, err := strconv.ParseInt(version, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid revision version %s", version)
		}
		version = strconv.FormatInt(n+1, 10)
	}
}

func (rm *RevisionManager) writeRevisionFile(rev *Revision) error {
	if err := os.MkdirAll(rm.dir, 0755); err != nil {
		return fmt.Errorf("failed to create revision directory: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("-- revision: %s\n", rev.Version))
	sb.WriteString(fmt.Sprintf("-- slug: %s\n", rev.Slug))
	sb.WriteString(fmt.Sprintf("-- created: %s\n\n", time.Now().UTC().Format(time.RFC3339)))
	for _, stmt := range rev.Statements {
		sb.WriteString(stmt)
		sb.WriteString(";\n\n")
	}
	if err := os.WriteFile(rev.Path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write revision file: %w", err)
	}
	return nil
}

// listRevisionFiles returns every parseable revision file in ascending
// version order. Statements are loaded lazily by UpgradeToHead.
func (rm *RevisionManager) listRevisionFiles() ([]Revision, error) {
	entries, err := os.ReadDir(rm.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var revs []Revision
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := revisionFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		revs = append(revs, Revision{
			Version: m[1],
			Slug:    m[2],
			Path:    filepath.Join(rm.dir, e.Name()),
		})
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].Version < revs[j].Version })
	return revs, nil
}

// AppliedVersions returns the versions of revisions already recorded in the
// tracking table.
func (rm *RevisionManager) AppliedVersions(ctx context.Context) (map[string]struct{}, error) {
	var records []Migration
	err := rm.db.NewSelect().
		Model(&records).
		Where("version LIKE ?", revisionVersionPrefix+"%").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(records))
	for _, r := range records {
		applied[strings.TrimPrefix(r.Version, revisionVersionPrefix)] = struct{}{}
	}
	return applied, nil
}

// PendingRevisions returns revision files not yet recorded as applied.
func (rm *RevisionManager) PendingRevisions(ctx context.Context) ([]Revision, error) {
	revs, err := rm.listRevisionFiles()
	if err != nil {
		return nil, err
	}
	applied, err := rm.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Revision
	for _, r := range revs {
		if _, ok := applied[r.Version]; !ok {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// UpgradeToHead applies every pending revision in version order, each inside
// its own transaction together with its tracking record. Running it again
// when nothing is pending is a no-op, so upgrades are idempotent.
func (rm *RevisionManager) UpgradeToHead(ctx context.Context) (int, error) {
	if rm.db == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	if _, err := rm.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	pending, err := rm.PendingRevisions(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		if rm.logger != nil {
			rm.logger.Info("Database is up to date, no pending revisions")
		}
		return 0, nil
	}

	applied := 0
	for _, rev := range pending {
		if err := rm.applyRevision(ctx, rev); err != nil {
			return applied, fmt.Errorf("failed to apply revision %s: %w", rev.Version, err)
		}
		applied++
		if rm.logger != nil {
			rm.logger.Info("Revision applied", "version", rev.Version, "slug", rev.Slug)
		}
	}
	return applied, nil
}

func (rm *RevisionManager) applyRevision(ctx context.Context, rev Revision) error {
	content, err := os.ReadFile(rev.Path)
	if err != nil {
		return fmt.Errorf("failed to read revision file: %w", err)
	}
	statements := splitSQLScript(string(content))

	return rm.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("statement failed: %s: %w", stmt, err)
			}
		}
		record := &Migration{
			Version:     revisionVersionPrefix + rev.Version,
			Name:        rev.Slug,
			AppliedAt:   time.Now(),
			Description: fmt.Sprintf("revision file %s", filepath.Base(rev.Path)),
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record revision: %w", err)
		}
		return nil
	})
}

// Status reports applied tracking records and pending revision files.
func (rm *RevisionManager) Status(ctx context.Context) (*RevisionStatus, error) {
	if rm.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if _, err := rm.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var records []Migration
	if err := rm.db.NewSelect().Model(&records).Order("applied_at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	pending, err := rm.PendingRevisions(ctx)
	if err != nil {
		return nil, err
	}
	return &RevisionStatus{Applied: records, Pending: pending}, nil
}

func normalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '_' || r == '-' || r == ' ':
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
