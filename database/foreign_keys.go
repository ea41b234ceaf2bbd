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
	"fmt"
	"strings"
	"sync"

	"github.com/uptrace/bun"
)

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string // CASCADE, RESTRICT, SET NULL, NO ACTION
	ConstraintName  string
}

// GenerateConstraintName returns the explicit name or a derived name.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// GenerateSQL returns the ALTER TABLE statement to add the constraint.
func (fk *ForeignKeyConstraint) GenerateSQL() string {
	constraintName := fk.GenerateConstraintName()
	sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		quoteIdent(fk.Table), quoteIdent(constraintName), fk.Column, quoteIdent(fk.ReferenceTable), fk.ReferenceColumn)

	if fk.OnDelete != "" {
		sql += fmt.Sprintf(" ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += fmt.Sprintf(" ON UPDATE %s", fk.OnUpdate)
	}

	return sql
}

// GenerateInlineSQL returns the table-definition clause form of the
// constraint, used for dialects that cannot add constraints to an existing
// table (sqlite).
func (fk *ForeignKeyConstraint) GenerateInlineSQL() string {
	sql := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
		quoteIdent(fk.Column), quoteIdent(fk.ReferenceTable), quoteIdent(fk.ReferenceColumn))

	if fk.OnDelete != "" {
		sql += fmt.Sprintf(" ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += fmt.Sprintf(" ON UPDATE %s", fk.OnUpdate)
	}

	return sql
}

var (
	fkRegistryMu sync.RWMutex
	fkRegistry   []ForeignKeyConstraint
)

// RegisterForeignKey adds a constraint to the process-wide registry. The
// models package registers its relationships here at init time.
func RegisterForeignKey(fk ForeignKeyConstraint) {
	fkRegistryMu.Lock()
	defer fkRegistryMu.Unlock()
	fkRegistry = append(fkRegistry, fk)
}

// RegisteredForeignKeyConstraints returns a copy of all registered constraints.
func RegisteredForeignKeyConstraints() []ForeignKeyConstraint {
	fkRegistryMu.RLock()
	defer fkRegistryMu.RUnlock()
	out := make([]ForeignKeyConstraint, len(fkRegistry))
	copy(out, fkRegistry)
	return out
}

// attachInlineForeignKeys copies the registered constraints for the schema's
// table into the schema, for dialects that must declare foreign keys at table
// creation time.
func attachInlineForeignKeys(schema *tableSchema) {
	for _, fk := range RegisteredForeignKeyConstraints() {
		if strings.EqualFold(fk.Table, schema.Name) {
			schema.ForeignKeys = append(schema.ForeignKeys, fk)
		}
	}
}

// ForeignKeyManager manages adding and validating foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager creates a manager backed by the registered constraints.
func NewForeignKeyManager(logger Logger) *ForeignKeyManager {
	return &ForeignKeyManager{
		constraints: RegisteredForeignKeyConstraints(),
		logger:      logger,
	}
}

// AddAllForeignKeys iterates through all constraints and adds them to the DB.
// Constraints that already exist are skipped; other failures are logged and
// do not stop the remaining constraints from being applied.
func (fkm *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) error {
	for _, constraint := range fkm.constraints {
		if err := fkm.addForeignKey(ctx, db, constraint); err != nil {
			if fkm.logger != nil {
				fkm.logger.Debug("Failed to add foreign key constraint", "constraint", constraint.GenerateConstraintName(), "error", err.Error())
			}
			continue
		}
		if fkm.logger != nil {
			fkm.logger.Debug("Added foreign key constraint", "constraint", constraint.GenerateConstraintName())
		}
	}
	return nil
}

func (fkm *ForeignKeyManager) addForeignKey(ctx context.Context, db bun.IDB, constraint ForeignKeyConstraint) error {
	_, err := db.ExecContext(ctx, constraint.GenerateSQL())
	return err
}

// RemoveForeignKey drops a named foreign key from a table.
func (fkm *ForeignKeyManager) RemoveForeignKey(ctx context.Context, db bun.IDB, tableName, constraintName string) error {
	sql := fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", quoteIdent(tableName), quoteIdent(constraintName))
	_, err := db.ExecContext(ctx, sql)
	return err
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

// ValidateConstraints checks the configured constraints for common issues.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error

	for _, constraint := range fkm.constraints {
		if constraint.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if constraint.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", constraint.Table))
		}
		if constraint.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", constraint.Table, constraint.Column))
		}
		if constraint.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", constraint.Table, constraint.Column, constraint.ReferenceTable))
		}

		if constraint.OnDelete != "" && !validReferentialAction(constraint.OnDelete) {
			errs = append(errs, fmt.Errorf("invalid delete policy: %s, constraint: %s", constraint.OnDelete, constraint.GenerateConstraintName()))
		}
		if constraint.OnUpdate != "" && !validReferentialAction(constraint.OnUpdate) {
			errs = append(errs, fmt.Errorf("invalid update policy: %s, constraint: %s", constraint.OnUpdate, constraint.GenerateConstraintName()))
		}
	}

	return errs
}

func validReferentialAction(action string) bool {
	for _, a := range []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"} {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}
