package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const timeLayout = time.RFC3339Nano

// SQLiteStore implements Store over a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore wraps an open database handle. The handle must already be
// migrated; use Open for the full open-migrate handshake.
func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteStore{db: db, log: logger.With().Str("component", "store").Logger()}, nil
}

// Open creates or opens the database at path, enables WAL, and runs schema
// migration before returning. No repository operation may proceed until
// Open returns.
func Open(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.log.Info().Str("path", path).Int("schema_version", SchemaVersion()).Msg("store opened")
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// projectOrderColumns whitelists the indexed fields a project list query
// may order by.
var projectOrderColumns = map[string]string{
	"createdAt":     "created_at",
	"name":          "name",
	"completedDate": "completed_date",
}

func (s *SQLiteStore) CreateProject(ctx context.Context, in Project) error {
	sets, err := encodeIntList(in.CompletedSets)
	if err != nil {
		return fmt.Errorf("encode completed_sets: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, type, status, sets, reps_per_set, completed_sets,
			target_count, target_weight, current_count, created_at, updated_at, completed_at, completed_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, in.Type, in.Status, in.Sets, in.RepsPerSet, sets,
		in.TargetCount, in.TargetWeight, in.CurrentCount,
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt), nullTime(in.CompletedAt), in.CompletedDate,
	)
	return err
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, status, sets, reps_per_set, completed_sets,
			target_count, target_weight, current_count, created_at, updated_at, completed_at, completed_date
		FROM projects WHERE id = ?`, id)
	out, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return out, nil
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, in Project) error {
	sets, err := encodeIntList(in.CompletedSets)
	if err != nil {
		return fmt.Errorf("encode completed_sets: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, description = ?, status = ?, sets = ?, reps_per_set = ?, completed_sets = ?,
			target_count = ?, target_weight = ?, current_count = ?, updated_at = ?, completed_at = ?, completed_date = ?
		WHERE id = ?`,
		in.Name, in.Description, in.Status, in.Sets, in.RepsPerSet, sets,
		in.TargetCount, in.TargetWeight, in.CurrentCount,
		mustTime(in.UpdatedAt), nullTime(in.CompletedAt), in.CompletedDate, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectListFilter) ([]Project, error) {
	query := `SELECT id, name, description, type, status, sets, reps_per_set, completed_sets,
		target_count, target_weight, current_count, created_at, updated_at, completed_at, completed_date
	FROM projects`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.CompletedDate != "" {
		clauses = append(clauses, "completed_date = ?")
		args = append(args, filter.CompletedDate)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "createdAt"
	}
	column, ok := projectOrderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIndex, filter.OrderBy)
	}
	query += " ORDER BY " + column
	if filter.Desc {
		query += " DESC"
	}
	query += applyLimit(&args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		item, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateRecord(ctx context.Context, in ProgressRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_records (id, project_id, timestamp, type, value, set_number, weight)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.ProjectID, mustTime(in.Timestamp), in.Type, in.Value, in.SetNumber, in.Weight,
	)
	return err
}

func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (ProgressRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, timestamp, type, value, set_number, weight
		FROM progress_records WHERE id = ?`, id)
	out, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProgressRecord{}, ErrNotFound
		}
		return ProgressRecord{}, err
	}
	return out, nil
}

func (s *SQLiteStore) UpdateRecord(ctx context.Context, in ProgressRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE progress_records
		SET project_id = ?, timestamp = ?, type = ?, value = ?, set_number = ?, weight = ?
		WHERE id = ?`,
		in.ProjectID, mustTime(in.Timestamp), in.Type, in.Value, in.SetNumber, in.Weight, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress_records WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordListFilter) ([]ProgressRecord, error) {
	query := `SELECT id, project_id, timestamp, type, value, set_number, weight FROM progress_records`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.From != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, mustTime(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, mustTime(*filter.To))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY timestamp ASC`
	query += applyLimit(&args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProgressRecord, 0)
	for rows.Next() {
		item, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRecordsByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM progress_records WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) CreateReminder(ctx context.Context, in Reminder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, project_id, enabled, deadline, remind_before, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.ProjectID, boolInt(in.Enabled), nullTime(in.Deadline), in.RemindBefore,
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetReminder(ctx context.Context, id string) (Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, enabled, deadline, remind_before, created_at, updated_at
		FROM reminders WHERE id = ?`, id)
	return s.scanReminderRow(row)
}

// GetReminderByProject returns the project's reminder. With the one
// reminder per project convention, ties are broken by most recent update.
func (s *SQLiteStore) GetReminderByProject(ctx context.Context, projectID string) (Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, enabled, deadline, remind_before, created_at, updated_at
		FROM reminders WHERE project_id = ?
		ORDER BY updated_at DESC LIMIT 1`, projectID)
	return s.scanReminderRow(row)
}

func (s *SQLiteStore) scanReminderRow(row *sql.Row) (Reminder, error) {
	out, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return out, nil
}

func (s *SQLiteStore) UpdateReminder(ctx context.Context, in Reminder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET project_id = ?, enabled = ?, deadline = ?, remind_before = ?, updated_at = ?
		WHERE id = ?`,
		in.ProjectID, boolInt(in.Enabled), nullTime(in.Deadline), in.RemindBefore, mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) DeleteReminder(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) DeleteRemindersByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error) {
	query := `SELECT id, project_id, enabled, deadline, remind_before, created_at, updated_at FROM reminders`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Enabled != nil {
		clauses = append(clauses, "enabled = ?")
		args = append(args, boolInt(*filter.Enabled))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY deadline ASC`
	query += applyLimit(&args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateTemplate(ctx context.Context, in Template) error {
	list, err := encodeConfigList(in.ProjectList)
	if err != nil {
		return fmt.Errorf("encode project_list: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, project_list, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, list, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, project_list, created_at, updated_at
		FROM templates WHERE id = ?`, id)
	out, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return out, nil
}

func (s *SQLiteStore) UpdateTemplate(ctx context.Context, in Template) error {
	list, err := encodeConfigList(in.ProjectList)
	if err != nil {
		return fmt.Errorf("encode project_list: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE templates
		SET name = ?, description = ?, project_list = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.Description, list, mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListTemplates(ctx context.Context, filter TemplateListFilter) ([]Template, error) {
	args := make([]any, 0, 1)
	query := `SELECT id, name, description, project_list, created_at, updated_at
		FROM templates ORDER BY created_at DESC` + applyLimit(&args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0)
	for rows.Next() {
		item, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(timeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(timeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyLimit(args *[]any, limit int) string {
	if limit <= 0 {
		return ""
	}
	*args = append(*args, limit)
	return " LIMIT ?"
}

func encodeIntList(v []int) (string, error) {
	if v == nil {
		v = []int{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeIntList(raw string) ([]int, error) {
	if raw == "" {
		return []int{}, nil
	}
	var out []int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeConfigList(v []TemplateConfig) (string, error) {
	if v == nil {
		v = []TemplateConfig{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeConfigList(raw string) ([]TemplateConfig, error) {
	if raw == "" {
		return []TemplateConfig{}, nil
	}
	var out []TemplateConfig
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (Project, error) {
	var out Project
	var completedSets string
	var created, updated string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &out.Type, &out.Status,
		&out.Sets, &out.RepsPerSet, &completedSets,
		&out.TargetCount, &out.TargetWeight, &out.CurrentCount,
		&created, &updated, &completed, &out.CompletedDate); err != nil {
		return Project{}, err
	}
	sets, err := decodeIntList(completedSets)
	if err != nil {
		return Project{}, fmt.Errorf("decode completed_sets: %w", err)
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Project{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Project{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Project{}, err
	}
	out.CompletedSets = sets
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.CompletedAt = completedAt
	return out, nil
}

func scanRecord(s scanner) (ProgressRecord, error) {
	var out ProgressRecord
	var ts string
	if err := s.Scan(&out.ID, &out.ProjectID, &ts, &out.Type, &out.Value, &out.SetNumber, &out.Weight); err != nil {
		return ProgressRecord{}, err
	}
	timestamp, err := parseRequiredTime(ts)
	if err != nil {
		return ProgressRecord{}, err
	}
	out.Timestamp = timestamp
	return out, nil
}

func scanReminder(s scanner) (Reminder, error) {
	var out Reminder
	var enabled int
	var deadline sql.NullString
	var created, updated string
	if err := s.Scan(&out.ID, &out.ProjectID, &enabled, &deadline, &out.RemindBefore, &created, &updated); err != nil {
		return Reminder{}, err
	}
	deadlineAt, err := parseNullableTime(deadline)
	if err != nil {
		return Reminder{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Reminder{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Reminder{}, err
	}
	out.Enabled = enabled == 1
	out.Deadline = deadlineAt
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanTemplate(s scanner) (Template, error) {
	var out Template
	var list string
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &list, &created, &updated); err != nil {
		return Template{}, err
	}
	configs, err := decodeConfigList(list)
	if err != nil {
		return Template{}, fmt.Errorf("decode project_list: %w", err)
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Template{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Template{}, err
	}
	out.ProjectList = configs
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
