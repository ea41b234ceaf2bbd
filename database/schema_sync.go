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
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type columnSpec struct {
	Name          string
	Type          string
	NotNull       bool
	Default       string
	PrimaryKey    bool
	UniqueTag     string
	AutoIncrement bool
	RenameFrom    string
}

type indexSpec struct {
	Name    string
	Columns []string
	Unique  bool
}

// tableSchema is the declared shape of one model's table: columns in field
// order plus the unique indexes derived from unique tags. ForeignKeys is
// empty after tag resolution; callers fill it only for dialects that cannot
// add constraints to an existing table.
type tableSchema struct {
	Name        string
	Columns     []columnSpec
	Uniques     []indexSpec
	ForeignKeys []ForeignKeyConstraint
}

func dialectName(db bun.IDB) string {
	return strings.ToLower(db.Dialect().Name().String())
}

func migrateConfig() DataMigrateConfig {
	if globalConfig != nil {
		return globalConfig.DataMigrateConfig
	}
	return DataMigrateConfig{
		AllowColumnAdd: true,
		AllowIndexAdd:  true,
	}
}

// SynchronizeSchema diffs every registered model against the live database
// structure and applies any allowed column and index changes. Each applied
// plan is recorded by content hash so unchanged tables are skipped on the
// next run.
func (mm *MigrationManager) SynchronizeSchema(ctx context.Context, db bun.IDB) error {
	ttl := time.Minute * 5
	if globalConfig != nil && globalConfig.DataMigrateConfig.SchemaMetaCacheTTL > 0 {
		ttl = globalConfig.DataMigrateConfig.SchemaMetaCacheTTL
	}
	_ = mm.ensureSchemaMetadataCaches(ctx, db, ttl)

	dialect := dialectName(db)
	for _, model := range RegisteredModelInstances() {
		schema, err := resolveTableSchema(model, dialect)
		if err != nil {
			return fmt.Errorf("failed to resolve table schema %T: %w", model, err)
		}
		tableName := schema.Name

		desiredCols := schema.columnMap()
		desiredIdx := schema.Uniques
		existingCols, err := mm.getColumnSchemaForTable(ctx, db, tableName)
		if err != nil {
			return fmt.Errorf("failed to query existing columns %s: %w", tableName, err)
		}
		existingIdx, err := mm.getIndexSchemaForTable(ctx, db, tableName)
		if err != nil {
			return fmt.Errorf("failed to query existing indexes %s: %w", tableName, err)
		}

		sigCols := buildDesiredColsSignature(dialect, desiredCols)
		sigIdx := buildDesiredIndexSignature(desiredIdx)
		sigText := tableName + "|cols:" + sigCols + "|idx:" + sigIdx
		sum := sha256.Sum256([]byte(sigText))
		hash := hex.EncodeToString(sum[:])
		version := fmt.Sprintf("schema_sync:%s:%s", tableName, hash)

		planCols := planColumns(dialect, tableName, desiredCols, existingCols)
		planIdx := planIndexes(dialect, tableName, desiredIdx, existingIdx)
		fullPlan := append(planCols, planIdx...)
		if len(fullPlan) == 0 {
			continue
		}
		sort.Strings(fullPlan)
		planText := strings.Join(fullPlan, ";\n")

		mm.migrationCacheMu.RLock()
		if mm.migrationCache != nil {
			if _, ok := mm.migrationCache[version]; ok {
				mm.migrationCacheMu.RUnlock()
				if mm.logger != nil {
					mm.logger.Debug("skip schema sync (schema unchanged)", "table", tableName)
				}
				continue
			}
		}
		mm.migrationCacheMu.RUnlock()
		exists, err := db.NewSelect().
			Model((*Migration)(nil)).
			Where("version = ?", version).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check schema_sync plan record %s: %w", tableName, err)
		}
		if exists {
			mm.migrationCacheMu.Lock()
			if mm.migrationCache == nil {
				mm.migrationCache = make(map[string]struct{})
			}
			mm.migrationCache[version] = struct{}{}
			mm.migrationCacheMu.Unlock()
			if mm.logger != nil {
				mm.logger.Debug("skip schema sync (plan unchanged, DB confirmed)", "table", tableName, "hash", hash)
			}
			continue
		}

		if err := mm.syncColumns(ctx, db, tableName, desiredCols, existingCols); err != nil {
			return err
		}
		if err := mm.syncIndexes(ctx, db, tableName, desiredIdx, existingIdx); err != nil {
			return err
		}

		if err := mm.recordSchemaSyncVersion(ctx, db, version, tableName, hash, planText); err != nil {
			return fmt.Errorf("failed to record schema_sync plan %s: %w", tableName, err)
		}
	}
	if mm.logger != nil && globalConfig != nil && globalConfig.DataMigrateConfig.SchemaMetaAuditLog {
		total := mm.schemaCacheHits + mm.schemaCacheMisses
		hitRate := 0.0
		if total > 0 {
			hitRate = float64(mm.schemaCacheHits) / float64(total)
		}
		mm.schemaCacheMu.Lock()
		mm.logger.Info("Schema metadata cache hit rate", "hits", mm.schemaCacheHits, "misses", mm.schemaCacheMisses, "hit_rate", fmt.Sprintf("%.2f", hitRate), "refreshes", mm.schemaCacheRefreshes)
		mm.schemaCacheHits = 0
		mm.schemaCacheMisses = 0
		mm.schemaCacheMu.Unlock()
	}
	return nil
}

func (ts *tableSchema) columnMap() map[string]columnSpec {
	cols := make(map[string]columnSpec, len(ts.Columns))
	for _, c := range ts.Columns {
		cols[c.Name] = c
	}
	return cols
}

func (ts *tableSchema) primaryKeyColumns() []string {
	var pk []string
	for _, c := range ts.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

func buildDesiredColsSignature(dialect string, desired map[string]columnSpec) string {
	if desired == nil {
		return ""
	}
	names := make([]string, 0, len(desired))
	for n := range desired {
		names = append(names, strings.ToLower(n))
	}
	sort.Strings(names)
	var parts []string
	for _, n := range names {
		c := desired[n]
		typ := normalizeSQLType(c.Type)
		def := normalizeDefault(c.Default, !c.NotNull)
		parts = append(parts, n+":"+typ+":"+fmt.Sprintf("%t", c.NotNull)+":"+def+":"+fmt.Sprintf("%t", c.PrimaryKey)+":"+fmt.Sprintf("%t", c.AutoIncrement)+":"+strings.ToLower(strings.TrimSpace(c.UniqueTag)))
	}
	_ = dialect
	return strings.Join(parts, ",")
}

func buildDesiredIndexSignature(desired []indexSpec) string {
	if len(desired) == 0 {
		return ""
	}
	var items []string
	for _, idx := range desired {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = strings.ToLower(strings.TrimSpace(c))
		}
		items = append(items, fmt.Sprintf("%t|%s", idx.Unique, strings.Join(cols, ",")))
	}
	sort.Strings(items)
	return strings.Join(items, ";")
}

func planColumns(dialect, table string, desired map[string]columnSpec, existing map[string]columnSpec) []string {
	cfg := migrateConfig()
	var stmts []string

	if cfg.AllowColumnAdd {
		var toAdd []string
		for name := range desired {
			if _, ok := existing[name]; !ok {
				toAdd = append(toAdd, name)
			}
		}
		sort.Strings(toAdd)
		for _, name := range toAdd {
			stmts = append(stmts, buildAddColumnSQL(table, desired[name]))
		}
	}

	if cfg.AllowColumnModify {
		var toModify []string
		for name, d := range desired {
			if e, ok := existing[name]; ok {
				if needsModification(d, e) {
					toModify = append(toModify, name)
				}
			}
		}
		sort.Strings(toModify)
		for _, name := range toModify {
			stmt := buildModifyColumnSQL(dialect, table, desired[name])
			if stmt != "" {
				stmts = append(stmts, stmt)
			}
		}
	}

	if cfg.AllowColumnDrop {
		var toDrop []string
		for name := range existing {
			if _, ok := desired[name]; !ok {
				toDrop = append(toDrop, name)
			}
		}
		sort.Strings(toDrop)
		for _, name := range toDrop {
			stmts = append(stmts, buildDropColumnSQL(table, name))
		}
	}

	return stmts
}

func planIndexes(dialect, table string, desired []indexSpec, existing []indexSpec) []string {
	cfg := migrateConfig()
	var stmts []string

	desiredMap := map[string]indexSpec{}
	for _, idx := range desired {
		desiredMap[idx.Name] = idx
	}
	existingMap := map[string]indexSpec{}
	for _, idx := range existing {
		existingMap[idx.Name] = idx
	}

	desiredSig := map[string]indexSpec{}
	for _, d := range desired {
		desiredSig[indexSignature(d)] = d
	}
	existingSig := map[string]indexSpec{}
	for _, e := range existing {
		existingSig[indexSignature(e)] = e
	}

	// An existing index with the same column set counts as the desired one
	// even when its name differs.
	for k, d := range desiredSig {
		if _, ok := existingMap[d.Name]; ok {
			continue
		}
		if e, ok := existingSig[k]; ok {
			delete(existingMap, e.Name)
			existingMap[d.Name] = e
		}
	}

	if cfg.AllowIndexAdd {
		var toAdd []string
		for name := range desiredMap {
			if _, ok := existingMap[name]; !ok {
				toAdd = append(toAdd, name)
			}
		}
		sort.Strings(toAdd)
		for _, name := range toAdd {
			stmts = append(stmts, buildCreateIndexSQL(table, desiredMap[name]))
		}
	}

	if cfg.AllowIndexDrop {
		var toDrop []string
		for name := range existingMap {
			if _, ok := desiredMap[name]; !ok {
				toDrop = append(toDrop, name)
			}
		}
		sort.Strings(toDrop)
		for _, name := range toDrop {
			stmt := buildDropIndexSQL(dialect, table, name)
			if stmt != "" {
				stmts = append(stmts, stmt)
			}
		}
	}

	return stmts
}

func indexSignature(s indexSpec) string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return fmt.Sprintf("%t|%s", s.Unique, strings.Join(cols, ","))
}

func (mm *MigrationManager) recordSchemaSyncVersion(ctx context.Context, db bun.IDB, version, table, hash, planText string) error {
	rec := &Migration{
		Version:     version,
		Name:        "schema_sync",
		AppliedAt:   time.Now(),
		Description: fmt.Sprintf("table %s schema sync, plan hash=%s", table, hash),
	}
	ins := db.NewInsert().Model(rec).On("CONFLICT DO NOTHING")
	if _, err := ins.Exec(ctx); err != nil {
		return err
	}
	mm.migrationCacheMu.Lock()
	if mm.migrationCache == nil {
		mm.migrationCache = make(map[string]struct{})
	}
	mm.migrationCache[version] = struct{}{}
	mm.migrationCacheMu.Unlock()
	return nil
}

func (mm *MigrationManager) syncColumns(ctx context.Context, db bun.IDB, table string, desired map[string]columnSpec, existing map[string]columnSpec) error {
	cfg := migrateConfig()
	dialect := dialectName(db)
	changed := false

	for newName, spec := range desired {
		if spec.RenameFrom == "" {
			continue
		}
		oldName := spec.RenameFrom
		if _, ok := existing[oldName]; !ok {
			continue
		}
		stmt := buildRenameColumnSQL(table, oldName, newName)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to rename column %s.%s -> %s: %w", table, oldName, newName, err)
		}
		changed = true
		if cfg.AllowColumnModify && (dialect == "postgres" || dialect == "pg") {
			oldSpec := existing[oldName]
			if needsModification(spec, oldSpec) {
				m := buildModifyColumnSQL(dialect, table, spec)
				if m != "" {
					if _, err := db.ExecContext(ctx, m); err != nil {
						return fmt.Errorf("failed to modify column after rename %s.%s: %w", table, newName, err)
					}
				}
			}
		}
		existing[newName] = spec
		delete(existing, oldName)
	}

	if cfg.AllowColumnAdd {
		for name, spec := range desired {
			if _, ok := existing[name]; !ok {
				stmt := buildAddColumnSQL(table, spec)
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to add column %s.%s: %w", table, name, err)
				}
				changed = true
			}
		}
	}

	if cfg.AllowColumnModify {
		for name, d := range desired {
			if e, ok := existing[name]; ok {
				if needsModification(d, e) {
					stmt := buildModifyColumnSQL(dialect, table, d)
					if stmt == "" {
						continue
					}
					if _, err := db.ExecContext(ctx, stmt); err != nil {
						return fmt.Errorf("failed to modify column %s.%s: %w", table, name, err)
					}
					changed = true
				}
			}
		}
	}

	if cfg.AllowColumnDrop {
		for name := range existing {
			if _, ok := desired[name]; !ok {
				stmt := buildDropColumnSQL(table, name)
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to drop column %s.%s: %w", table, name, err)
				}
				changed = true
			}
		}
	}

	if changed {
		_ = mm.RefreshSchemaMetadataForTables(ctx, db, []string{table})
	}
	return nil
}

func (mm *MigrationManager) syncIndexes(ctx context.Context, db bun.IDB, table string, desired []indexSpec, existing []indexSpec) error {
	cfg := migrateConfig()
	dialect := dialectName(db)
	changed := false
	if fresh, err := mm.getIndexSchemaForTable(ctx, db, table); err == nil && fresh != nil {
		existing = fresh
	}
	desiredMap := map[string]indexSpec{}
	for _, idx := range desired {
		desiredMap[idx.Name] = idx
	}
	existingMap := map[string]indexSpec{}
	for _, idx := range existing {
		existingMap[idx.Name] = idx
	}

	desiredSig := map[string]indexSpec{}
	for _, d := range desired {
		desiredSig[indexSignature(d)] = d
	}
	existingSig := map[string]indexSpec{}
	for _, e := range existing {
		existingSig[indexSignature(e)] = e
	}

	for sigKey, d := range desiredSig {
		if _, ok := desiredMap[d.Name]; !ok {
			continue
		}
		if _, ok := existingMap[d.Name]; ok {
			continue
		}
		if e, ok := existingSig[sigKey]; ok {
			delete(existingMap, e.Name)
			existingMap[d.Name] = e
		}
	}

	if cfg.AllowIndexAdd {
		for name, d := range desiredMap {
			if _, ok := existingMap[name]; !ok {
				stmt := buildCreateIndexSQL(table, d)
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					is, sqlErr := IsSqlError(err)
					if is && sqlErr == ExistIndexErr {
						continue
					}
					return fmt.Errorf("failed to add index %s.%s: %w", table, name, err)
				}
				changed = true
			}
		}
	}

	if cfg.AllowIndexDrop {
		for name := range existingMap {
			if _, ok := desiredMap[name]; !ok {
				stmt := buildDropIndexSQL(dialect, table, name)
				if stmt == "" {
					continue
				}
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					is, sqlErr := IsSqlError(err)
					if is && sqlErr == NoIndexErr {
						continue
					}
					return fmt.Errorf("failed to drop index %s.%s: %w", table, name, err)
				}
				changed = true
			}
		}
	}
	if changed {
		_ = mm.RefreshSchemaMetadataForTables(ctx, db, []string{table})
	}
	return nil
}

func resolveTableName(model interface{}) (string, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Name() == "BaseModel" && strings.Contains(f.Type.PkgPath(), "uptrace/bun") {
			tag := f.Tag.Get("bun")
			for _, part := range strings.Split(tag, ",") {
				part = strings.TrimSpace(part)
				if strings.HasPrefix(part, "table:") {
					return strings.TrimPrefix(part, "table:"), nil
				}
			}
		}
	}
	return "", fmt.Errorf("missing table tag on bun.BaseModel")
}

// resolveTableSchema reads the bun tags of a model struct into a tableSchema.
// Columns keep their declared field order. Unique tags with a shared group
// name produce one multi-column unique index; bare unique tags produce a
// per-column index named uk_<table>_<column>.
func resolveTableSchema(model interface{}, dialect string) (*tableSchema, error) {
	tableName, err := resolveTableName(model)
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var cols []columnSpec
	uniques := map[string][]string{}
	var uniqueOrder []string
	collectDesiredSchema(t, tableName, dialect, &cols, uniques, &uniqueOrder)

	idx := make([]indexSpec, 0, len(uniques))
	for _, name := range uniqueOrder {
		idx = append(idx, indexSpec{Name: name, Columns: uniques[name], Unique: true})
	}
	return &tableSchema{Name: tableName, Columns: cols, Uniques: idx}, nil
}

func collectDesiredSchema(t reflect.Type, tableName, dialect string, cols *[]columnSpec, uniques map[string][]string, uniqueOrder *[]string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Name() == "BaseModel" && strings.Contains(f.Type.PkgPath(), "uptrace/bun") {
			continue
		}
		tag := f.Tag.Get("bun")
		if tag == "-" || strings.Contains(tag, "rel:") || strings.Contains(tag, "m2m:") {
			continue
		}
		if tag == "" {
			if f.Anonymous {
				ft := f.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					collectDesiredSchema(ft, tableName, dialect, cols, uniques, uniqueOrder)
				}
			}
			continue
		}

		parts := strings.Split(tag, ",")
		colName := strings.TrimSpace(parts[0])
		if colName == "" || colName == "-" {
			continue
		}

		spec := columnSpec{Name: colName}
		for _, p := range parts[1:] {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "type:"):
				spec.Type = strings.TrimPrefix(p, "type:")
			case p == "notnull":
				spec.NotNull = true
			case strings.HasPrefix(p, "default:"):
				spec.Default = strings.TrimPrefix(p, "default:")
			case p == "pk":
				spec.PrimaryKey = true
			case p == "autoincrement" || p == "identity":
				spec.AutoIncrement = true
			case p == "unique" || strings.HasPrefix(p, "unique:"):
				spec.UniqueTag = p
				name := ""
				if strings.HasPrefix(p, "unique:") {
					name = strings.TrimPrefix(p, "unique:")
				} else {
					name = fmt.Sprintf("uk_%s_%s", tableName, colName)
				}
				if _, seen := uniques[name]; !seen {
					*uniqueOrder = append(*uniqueOrder, name)
				}
				uniques[name] = append(uniques[name], colName)
			}
		}
		if spec.PrimaryKey || spec.AutoIncrement {
			spec.NotNull = true
		}
		if spec.Type == "" {
			spec.Type = inferSQLType(f.Type, dialect)
		}
		pinrexTag := strings.TrimSpace(f.Tag.Get("pinrex"))
		if pinrexTag != "" {
			idx := strings.Index(pinrexTag, "rename:")
			if idx >= 0 {
				val := strings.TrimSpace(pinrexTag[idx+len("rename:"):])
				val = strings.Trim(val, "'\"")
				if val != "" {
					spec.RenameFrom = val
				}
			}
		}
		*cols = append(*cols, spec)
	}
}

func inferSQLType(rt reflect.Type, dialect string) string {
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	pg := dialect == "postgres" || dialect == "pg"
	switch rt.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		if pg {
			return "bigint"
		}
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		if pg {
			return "double precision"
		}
		return "REAL"
	case reflect.String:
		if pg {
			return "text"
		}
		return "TEXT"
	case reflect.Bool:
		if pg {
			return "boolean"
		}
		return "BOOLEAN"
	default:
		if rt.PkgPath() == "time" && rt.Name() == "Time" {
			if pg {
				return "timestamptz"
			}
			return "TIMESTAMP"
		}
		return "TEXT"
	}
}

func listExistingColumns(ctx context.Context, db bun.IDB, table string) (map[string]columnSpec, error) {
	cols := map[string]columnSpec{}
	dialect := dialectName(db)
	var rows *sql.Rows
	var err error
	switch dialect {
	case "postgres", "pg":
		rows, err = db.QueryContext(ctx, `SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_name = $1`, table)
	default:
		rows, err = db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", table))
	}
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var name, typStr, nullable string
		var defaultNS sql.NullString
		switch dialect {
		case "postgres", "pg":
			if err := rows.Scan(&name, &typStr, &nullable, &defaultNS); err != nil {
				return nil, err
			}
		default:
			var cid, notnull, pk int
			if err := rows.Scan(&cid, &name, &typStr, &notnull, &defaultNS, &pk); err != nil {
				return nil, err
			}
			nullable = map[bool]string{true: "NO", false: "YES"}[notnull == 1]
		}
		def := ""
		if defaultNS.Valid {
			def = defaultNS.String
		}
		cols[name] = columnSpec{Name: name, Type: typStr, NotNull: strings.ToUpper(nullable) == "NO", Default: def}
	}
	return cols, rows.Err()
}

func listExistingColumnsAll(ctx context.Context, db bun.IDB) (map[string]map[string]columnSpec, error) {
	if d := dialectName(db); d != "postgres" && d != "pg" {
		// sqlite has no cross-table catalog worth caching; tables are
		// introspected one by one via PRAGMA.
		return nil, nil
	}
	result := make(map[string]map[string]columnSpec)
	rows, err := db.QueryContext(ctx, `SELECT table_name, column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_schema = current_schema()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tbl, name, typStr, nullable string
		var defaultNS sql.NullString
		if err := rows.Scan(&tbl, &name, &typStr, &nullable, &defaultNS); err != nil {
			return nil, err
		}
		def := ""
		if defaultNS.Valid {
			def = defaultNS.String
		}
		key := strings.ToLower(tbl)
		if _, ok := result[key]; !ok {
			result[key] = make(map[string]columnSpec)
		}
		result[key][name] = columnSpec{Name: name, Type: typStr, NotNull: strings.ToUpper(nullable) == "NO", Default: def}
	}
	return result, rows.Err()
}

func listExistingColumnsSome(ctx context.Context, db bun.IDB, tables []string) (map[string]map[string]columnSpec, error) {
	result := make(map[string]map[string]columnSpec)
	if len(tables) == 0 {
		return result, nil
	}
	if d := dialectName(db); d != "postgres" && d != "pg" {
		return nil, nil
	}
	var inList []string
	for _, t := range tables {
		t = strings.TrimSpace(t)
		t = strings.ReplaceAll(t, "'", "''")
		inList = append(inList, fmt.Sprintf("'%s'", t))
	}
	q := fmt.Sprintf(`SELECT table_name, column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_schema = current_schema() AND table_name IN (%s)`, strings.Join(inList, ","))
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tbl, name, typStr, nullable string
		var defaultNS sql.NullString
		if err := rows.Scan(&tbl, &name, &typStr, &nullable, &defaultNS); err != nil {
			return nil, err
		}
		def := ""
		if defaultNS.Valid {
			def = defaultNS.String
		}
		key := strings.ToLower(tbl)
		if _, ok := result[key]; !ok {
			result[key] = make(map[string]columnSpec)
		}
		result[key][name] = columnSpec{Name: name, Type: typStr, NotNull: strings.ToUpper(nullable) == "NO", Default: def}
	}
	return result, rows.Err()
}

func listExistingIndexes(ctx context.Context, db bun.IDB, table string) ([]indexSpec, error) {
	dialect := dialectName(db)
	var idx []indexSpec

	switch dialect {
	case "postgres", "pg":
		rows, err := db.QueryContext(ctx, `SELECT indexname, indexdef FROM pg_indexes WHERE tablename = $1`, table)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var name, def string
			if err := rows.Scan(&name, &def); err != nil {
				return nil, err
			}
			idx = append(idx, parseIndexDef(name, def))
		}
		return idx, rows.Err()
	default:
		rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list('%s')", table))
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var seq, unique int
			var name string
			var origin, partial string
			if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
				return nil, err
			}
			spec := indexSpec{Name: name, Unique: unique == 1}
			rows2, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info('%s')", name))
			if err != nil {
				return nil, err
			}
			for rows2.Next() {
				var seqno, cid int
				var col sql.NullString
				if err := rows2.Scan(&seqno, &cid, &col); err != nil {
					rows2.Close()
					return nil, err
				}
				if col.Valid {
					spec.Columns = append(spec.Columns, col.String)
				}
			}
			rows2.Close()
			idx = append(idx, spec)
		}
		return idx, rows.Err()
	}
}

func parseIndexDef(name, def string) indexSpec {
	spec := indexSpec{Name: name}
	spec.Unique = strings.Contains(strings.ToUpper(def), "UNIQUE")
	open := strings.Index(def, "(")
	closeIdx := strings.LastIndex(def, ")")
	if open > 0 && closeIdx > open {
		cols := strings.Split(def[open+1:closeIdx], ",")
		for _, c := range cols {
			spec.Columns = append(spec.Columns, strings.TrimSpace(strings.Trim(strings.TrimSpace(c), `"`)))
		}
	}
	return spec
}

func listExistingIndexesAll(ctx context.Context, db bun.IDB) (map[string][]indexSpec, error) {
	if d := dialectName(db); d != "postgres" && d != "pg" {
		return nil, nil
	}
	result := make(map[string][]indexSpec)
	rows, err := db.QueryContext(ctx, `SELECT tablename, indexname, indexdef FROM pg_indexes WHERE schemaname = current_schema()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tbl, name, def string
		if err := rows.Scan(&tbl, &name, &def); err != nil {
			return nil, err
		}
		key := strings.ToLower(tbl)
		result[key] = append(result[key], parseIndexDef(name, def))
	}
	return result, rows.Err()
}

func listExistingIndexesSome(ctx context.Context, db bun.IDB, tables []string) (map[string][]indexSpec, error) {
	result := make(map[string][]indexSpec)
	if len(tables) == 0 {
		return result, nil
	}
	if d := dialectName(db); d != "postgres" && d != "pg" {
		return nil, nil
	}
	var inList []string
	for _, t := range tables {
		t = strings.TrimSpace(t)
		t = strings.ReplaceAll(t, "'", "''")
		inList = append(inList, fmt.Sprintf("'%s'", t))
	}
	q := fmt.Sprintf(`SELECT tablename, indexname, indexdef FROM pg_indexes WHERE schemaname = current_schema() AND tablename IN (%s)`, strings.Join(inList, ","))
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tbl, name, def string
		if err := rows.Scan(&tbl, &name, &def); err != nil {
			return nil, err
		}
		key := strings.ToLower(tbl)
		result[key] = append(result[key], parseIndexDef(name, def))
	}
	return result, rows.Err()
}

// quoteIdent double-quotes an identifier. Both supported dialects accept the
// standard quoting form.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func buildAddColumnSQL(table string, c columnSpec) string {
	notNull := ""
	if c.NotNull {
		if migrateConfig().EnforceNotNullWithDefault && c.Default == "" {
			notNull = ""
		} else {
			notNull = " NOT NULL"
		}
	}
	def := ""
	if c.Default != "" {
		def = " DEFAULT " + c.Default
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s%s%s", quoteIdent(table), quoteIdent(c.Name), c.Type, notNull, def)
}

func buildModifyColumnSQL(dialect, table string, c columnSpec) string {
	if dialect != "postgres" && dialect != "pg" {
		// sqlite cannot alter column definitions in place
		return ""
	}
	var stmts []string
	if c.Type != "" {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s",
			quoteIdent(table), quoteIdent(c.Name), c.Type, quoteIdent(c.Name), c.Type))
	}
	if c.NotNull {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", quoteIdent(table), quoteIdent(c.Name)))
	} else {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", quoteIdent(table), quoteIdent(c.Name)))
	}
	if c.Default != "" {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", quoteIdent(table), quoteIdent(c.Name), c.Default))
	} else {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", quoteIdent(table), quoteIdent(c.Name)))
	}
	return strings.Join(stmts, "; ")
}

func buildRenameColumnSQL(table, oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quoteIdent(table), quoteIdent(oldName), quoteIdent(newName))
}

func buildDropColumnSQL(table, col string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(table), quoteIdent(col))
}

func buildCreateIndexSQL(table string, idx indexSpec) string {
	cols := make([]string, 0, len(idx.Columns))
	for _, c := range idx.Columns {
		cols = append(cols, quoteIdent(c))
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, quoteIdent(idx.Name), quoteIdent(table), strings.Join(cols, ", "))
}

func isPrimaryIndexName(dialect, table, indexName string) bool {
	switch dialect {
	case "postgres", "pg":
		return strings.EqualFold(indexName, table+"_pkey")
	default:
		return strings.HasPrefix(indexName, "sqlite_autoindex_")
	}
}

func buildDropIndexSQL(dialect, table, name string) string {
	if isPrimaryIndexName(dialect, table, name) {
		return ""
	}
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", quoteIdent(name))
}

// buildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement from the
// declared schema. Unique groups are intentionally excluded from the table
// definition: they are created afterwards as named unique indexes (see
// buildUniqueIndexSQLs), so a multi-column group never degenerates into
// per-column UNIQUE constraints.
func buildCreateTableSQL(dialect string, schema *tableSchema) string {
	pg := dialect == "postgres" || dialect == "pg"
	pk := schema.primaryKeyColumns()
	singleAutoPK := len(pk) == 1 && func() bool {
		for _, c := range schema.Columns {
			if c.Name == pk[0] && c.AutoIncrement {
				return true
			}
		}
		return false
	}()

	var defs []string
	for _, c := range schema.Columns {
		typ := c.Type
		line := quoteIdent(c.Name) + " "
		if singleAutoPK && c.Name == pk[0] {
			if pg {
				line += "BIGSERIAL NOT NULL"
			} else {
				line += "INTEGER PRIMARY KEY AUTOINCREMENT"
			}
			defs = append(defs, line)
			continue
		}
		line += typ
		if c.NotNull {
			line += " NOT NULL"
		}
		if c.Default != "" {
			line += " DEFAULT " + c.Default
		}
		defs = append(defs, line)
	}

	if len(pk) > 0 && (pg || !singleAutoPK) {
		quoted := make([]string, len(pk))
		for i, c := range pk {
			quoted[i] = quoteIdent(c)
		}
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	for _, fk := range schema.ForeignKeys {
		defs = append(defs, fk.GenerateInlineSQL())
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", quoteIdent(schema.Name), strings.Join(defs, ",\n  "))
}

// buildUniqueIndexSQLs returns one CREATE UNIQUE INDEX statement per unique
// group of the schema, preserving the group's column order.
func buildUniqueIndexSQLs(schema *tableSchema) []string {
	stmts := make([]string, 0, len(schema.Uniques))
	for _, u := range schema.Uniques {
		stmts = append(stmts, buildCreateIndexSQL(schema.Name, u))
	}
	return stmts
}

func needsModification(desired, existing columnSpec) bool {
	if desired.Type != "" {
		if normalizeSQLType(desired.Type) != normalizeSQLType(existing.Type) {
			return true
		}
	}
	if desired.NotNull != existing.NotNull {
		return true
	}
	d := normalizeDefault(desired.Default, !desired.NotNull)
	e := normalizeDefault(existing.Default, !existing.NotNull)
	return d != e
}

func normalizeSQLType(typ string) string {
	s := strings.ToLower(strings.TrimSpace(typ))
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case s == "bigserial" || s == "serial8":
		s = "bigint"
	case s == "serial" || s == "serial4":
		s = "integer"
	case s == "int8":
		s = "bigint"
	case s == "int" || s == "int4":
		s = "integer"
	case s == "bool":
		s = "boolean"
	case s == "float8":
		s = "double precision"
	case strings.HasPrefix(s, "varchar"):
		s = "character varying" + strings.TrimPrefix(s, "varchar")
	case s == "timestamptz":
		s = "timestamp with time zone"
	}
	return s
}

func normalizeDefault(def string, nullable bool) string {
	s := strings.TrimSpace(strings.Trim(def, "()"))
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, "null") && nullable {
		return ""
	}
	// postgres reports defaults with type casts, e.g. 'x'::text
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, "'")
}
