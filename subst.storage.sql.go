package subst

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// sqlDialect captures what differs between the SQL backends.
type sqlDialect struct {
	// bind returns the placeholder for the n-th (1-based) query argument.
	bind func(n int) string
	// schema returns the DDL statements creating the template table.
	schema func(table string) []string
	// timeArg converts a timestamp into a driver argument.
	timeArg func(t time.Time) any
	// txOptions is used for the version-allocating transaction in Save.
	txOptions *sql.TxOptions
}

// sqlStorage implements TemplateStorage on database/sql.
// The SQLite and PostgreSQL drivers wrap it with their own dialect.
type sqlStorage struct {
	db           *sql.DB
	dialect      sqlDialect
	table        string
	queryTimeout time.Duration
	mu           sync.RWMutex
	closed       bool
}

const sqlTemplateColumns = "id, name, source, version, description, metadata, created_by, created_at, updated_at"

func newSQLStorage(db *sql.DB, dialect sqlDialect, tablePrefix string, queryTimeout time.Duration) *sqlStorage {
	if tablePrefix == "" {
		tablePrefix = SQLTablePrefix
	}
	if queryTimeout <= 0 {
		queryTimeout = SQLDefaultQueryTimeout
	}
	return &sqlStorage{
		db:           db,
		dialect:      dialect,
		table:        tablePrefix + "templates",
		queryTimeout: queryTimeout,
	}
}

// Migrate creates the template table and its indexes if they don't exist.
func (s *sqlStorage) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	for _, stmt := range s.dialect.schema(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &StorageError{Message: ErrMsgStorageMigrateFailed, Cause: err}
		}
	}
	return nil
}

// Get retrieves the latest version of a template by name.
func (s *sqlStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = %s
		ORDER BY version DESC
		LIMIT 1`, sqlTemplateColumns, s.table, s.dialect.bind(1))

	tmpl, err := s.queryOne(ctx, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStorageTemplateNotFoundError(name)
		}
		return nil, s.wrapErr(err, name, 0)
	}
	return tmpl, nil
}

// GetVersion retrieves a specific version of a template.
func (s *sqlStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = %s AND version = %s`,
		sqlTemplateColumns, s.table, s.dialect.bind(1), s.dialect.bind(2))

	tmpl, err := s.queryOne(ctx, query, name, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, s.wrapErr(err, name, version)
	}
	return tmpl, nil
}

// Save stores a template as a new version.
func (s *sqlStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tmpl.Name == "" {
		return &StorageError{Message: ErrMsgInvalidStoredName, Cause: ErrInvalidTemplateName}
	}

	metadataJSON, err := json.Marshal(tmpl.Metadata)
	if err != nil {
		return &StorageError{Message: ErrMsgStorageEncodeFailed, Name: tmpl.Name, Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, s.dialect.txOptions)
	if err != nil {
		return s.wrapErr(err, tmpl.Name, 0)
	}
	defer func() { _ = tx.Rollback() }()

	var maxVersion int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s WHERE name = %s", s.table, s.dialect.bind(1)),
		tmpl.Name).Scan(&maxVersion)
	if err != nil {
		return s.wrapErr(err, tmpl.Name, 0)
	}

	id := generateTemplateID()
	version := maxVersion + 1
	now := time.Now().UTC()

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)`, s.table, sqlTemplateColumns, s.bindList(9))
	_, err = tx.ExecContext(ctx, insert,
		string(id), tmpl.Name, tmpl.Source, version, tmpl.Description, string(metadataJSON),
		tmpl.CreatedBy, s.dialect.timeArg(now), s.dialect.timeArg(now))
	if err != nil {
		return s.wrapErr(err, tmpl.Name, version)
	}

	if err := tx.Commit(); err != nil {
		return s.wrapErr(err, tmpl.Name, version)
	}

	tmpl.ID = id
	tmpl.Version = version
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	return nil
}

// Delete removes all versions of a template by name.
func (s *sqlStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE name = %s", s.table, s.dialect.bind(1)), name)
	if err != nil {
		return s.wrapErr(err, name, 0)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.wrapErr(err, name, 0)
	}
	if n == 0 {
		return NewStorageTemplateNotFoundError(name)
	}
	return nil
}

// List returns the latest version of each template matching the query, ordered by name.
func (s *sqlStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == nil {
		query = &TemplateQuery{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		conditions []string
		args       []any
	)
	conditions = append(conditions,
		fmt.Sprintf("t.version = (SELECT MAX(v.version) FROM %s v WHERE v.name = t.name)", s.table))
	if query.NamePrefix != "" {
		args = append(args, query.NamePrefix)
		conditions = append(conditions, fmt.Sprintf("substr(t.name, 1, %d) = %s",
			utf8.RuneCountInString(query.NamePrefix), s.dialect.bind(len(args))))
	}
	if query.CreatedBy != "" {
		args = append(args, query.CreatedBy)
		conditions = append(conditions, fmt.Sprintf("t.created_by = %s", s.dialect.bind(len(args))))
	}

	columns := "t." + strings.ReplaceAll(sqlTemplateColumns, ", ", ", t.")
	stmt := fmt.Sprintf("SELECT %s FROM %s t WHERE %s ORDER BY t.name",
		columns, s.table, strings.Join(conditions, " AND "))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, s.wrapErr(err, "", 0)
	}
	defer rows.Close()

	results := make([]*StoredTemplate, 0)
	for rows.Next() {
		tmpl, err := scanStoredTemplate(rows)
		if err != nil {
			return nil, s.wrapErr(err, "", 0)
		}
		results = append(results, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr(err, "", 0)
	}

	// Byte order regardless of the database collation.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return applyPagination(results, query), nil
}

// Exists checks if a template with the given name exists.
func (s *sqlStorage) Exists(ctx context.Context, name string) (bool, error) {
	versions, err := s.ListVersions(ctx, name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a template, newest first.
func (s *sqlStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT version FROM %s WHERE name = %s ORDER BY version DESC", s.table, s.dialect.bind(1)),
		name)
	if err != nil {
		return nil, s.wrapErr(err, name, 0)
	}
	defer rows.Close()

	versions := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, s.wrapErr(err, name, 0)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr(err, name, 0)
	}
	return versions, nil
}

// Close closes the underlying database handle.
func (s *sqlStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// queryOne runs a single-row query under the read lock and query timeout.
func (s *sqlStorage) queryOne(ctx context.Context, query string, args ...any) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return scanStoredTemplate(s.db.QueryRowContext(ctx, query, args...))
}

func (s *sqlStorage) bindList(n int) string {
	binds := make([]string, n)
	for i := range binds {
		binds[i] = s.dialect.bind(i + 1)
	}
	return strings.Join(binds, ", ")
}

func (s *sqlStorage) wrapErr(err error, name string, version int) error {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{
		Message: ErrMsgStorageQueryFailed,
		Name:    name,
		Version: version,
		Cause:   err,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredTemplate(row rowScanner) (*StoredTemplate, error) {
	var (
		id           string
		metadataJSON []byte
		createdAt    sqlTime
		updatedAt    sqlTime
		tmpl         StoredTemplate
	)

	err := row.Scan(&id, &tmpl.Name, &tmpl.Source, &tmpl.Version, &tmpl.Description,
		&metadataJSON, &tmpl.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	tmpl.ID = TemplateID(id)
	tmpl.CreatedAt = createdAt.Time
	tmpl.UpdatedAt = updatedAt.Time

	if len(metadataJSON) > 0 && string(metadataJSON) != "null" {
		if err := json.Unmarshal(metadataJSON, &tmpl.Metadata); err != nil {
			return nil, &StorageError{Message: ErrMsgStorageDecodeFailed, Name: tmpl.Name, Cause: err}
		}
	}

	return &tmpl, nil
}

// sqlTime scans timestamps stored natively (PostgreSQL) or as RFC 3339 text (SQLite).
type sqlTime struct {
	Time time.Time
}

// Scan implements sql.Scanner.
func (t *sqlTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
	return nil
}

func (t *sqlTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
