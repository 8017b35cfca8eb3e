package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pocdart/sprinttools/internal/sprint"

	_ "github.com/duckdb/duckdb-go/v2"
)

const schemaVersion = 1

// Store is the DuckDB-backed sprint store: raw board snapshots for replaying
// old sprints, and one flat sprint_summary row per planning ritual for trend
// analysis. Every insert is a single all-or-nothing statement.
type Store struct {
	conn *sql.DB
}

func Open(dataDir string) (*Store, error) {
	conn, err := sql.Open("duckdb", filepath.Join(dataDir, "sprints.duckdb"))
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	s := &Store{conn: conn}

	if err := s.migrateSchema(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	if err := s.createViews(); err != nil {
		return nil, fmt.Errorf("create views: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Store) migrateSchema() error {
	if s.getSchemaVersion() >= schemaVersion {
		return nil
	}

	slog.Info("initializing schema", "version", schemaVersion)
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS schema_version",
		"CREATE TABLE schema_version (version INTEGER NOT NULL)",
	} {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	_, err := s.conn.Exec("INSERT INTO schema_version VALUES (?)", schemaVersion)
	return err
}

func (s *Store) getSchemaVersion() int {
	var v int
	if err := s.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return 0
	}
	return v
}

func (s *Store) createTables() error {
	stmts := []string{
		"CREATE SEQUENCE IF NOT EXISTS seq_boards START 1",
		"CREATE SEQUENCE IF NOT EXISTS seq_sprint_summary START 1",
		`CREATE TABLE IF NOT EXISTS boards (
			id INTEGER PRIMARY KEY DEFAULT nextval('seq_boards'),
			board_id VARCHAR NOT NULL,
			board_name VARCHAR,
			json_data VARCHAR NOT NULL,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS sprint_summary (
			id INTEGER PRIMARY KEY DEFAULT nextval('seq_sprint_summary'),
			board_id VARCHAR NOT NULL,
			start_date DATE NOT NULL,
			length_days INTEGER NOT NULL,
			members INTEGER NOT NULL,
			vacation_days INTEGER NOT NULL,
			planned_total INTEGER NOT NULL,
			planned_completed INTEGER NOT NULL,
			planned_remaining INTEGER NOT NULL,
			unplanned_total INTEGER NOT NULL,
			unplanned_completed INTEGER NOT NULL,
			unplanned_remaining INTEGER NOT NULL,
			retro_total INTEGER NOT NULL,
			retro_completed INTEGER NOT NULL,
			retro_remaining INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT current_timestamp
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createViews() error {
	views := []string{
		`CREATE OR REPLACE VIEW velocity_history AS
		SELECT board_id, start_date, length_days, members,
		       planned_completed + unplanned_completed + retro_completed AS completed,
		       unplanned_total AS unplanned,
		       retro_remaining AS retro_leftover
		FROM sprint_summary
		ORDER BY start_date`,
	}
	for _, v := range views {
		if _, err := s.conn.Exec(v); err != nil {
			return err
		}
	}
	return nil
}

// InsertBoardSnapshot archives a raw board snapshot and returns its assigned
// row ID.
func (s *Store) InsertBoardSnapshot(boardID, boardName, jsonData string) (int, error) {
	var id int
	err := s.conn.QueryRow(
		"INSERT INTO boards (board_id, board_name, json_data) VALUES (?, ?, ?) RETURNING id",
		boardID, boardName, jsonData,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert into boards: %w", err)
	}
	return id, nil
}

// InsertSprintSummary persists one ritual's flattened result.
func (s *Store) InsertSprintSummary(sum sprint.Summary) (int, error) {
	var id int
	err := s.conn.QueryRow(
		`INSERT INTO sprint_summary (board_id, start_date, length_days, members, vacation_days,
			planned_total, planned_completed, planned_remaining,
			unplanned_total, unplanned_completed, unplanned_remaining,
			retro_total, retro_completed, retro_remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		sum.BoardID, sum.StartDate, sum.LengthDays, sum.Members, sum.VacationDays,
		sum.PlannedTotal, sum.PlannedCompleted, sum.PlannedRemaining,
		sum.UnplannedTotal, sum.UnplannedCompleted, sum.UnplannedRemaining,
		sum.RetroTotal, sum.RetroCompleted, sum.RetroRemaining,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert into sprint_summary: %w", err)
	}
	return id, nil
}

// BoardEntry is one archived snapshot's listing row.
type BoardEntry struct {
	ID        int
	BoardID   string
	BoardName string
	CreatedAt string
}

// ListBoards returns the archived snapshots, oldest first.
func (s *Store) ListBoards() ([]BoardEntry, error) {
	rows, err := s.conn.Query("SELECT id, board_id, board_name, CAST(created_at AS VARCHAR) FROM boards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select from boards: %w", err)
	}
	defer rows.Close()

	var entries []BoardEntry
	for rows.Next() {
		var e BoardEntry
		if err := rows.Scan(&e.ID, &e.BoardID, &e.BoardName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan boards row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetBoardSnapshot retrieves an archived snapshot's raw JSON by its assigned
// row ID.
func (s *Store) GetBoardSnapshot(assignedID int) (string, error) {
	var jsonData string
	err := s.conn.QueryRow("SELECT json_data FROM boards WHERE id = ?", assignedID).Scan(&jsonData)
	if err != nil {
		return "", fmt.Errorf("select from boards id=%d: %w", assignedID, err)
	}
	return jsonData, nil
}

// GetSprintSummaries returns a board's persisted summaries in chronological
// order, the raw material for future historical series.
func (s *Store) GetSprintSummaries(boardID string) ([]sprint.Summary, error) {
	rows, err := s.conn.Query(
		`SELECT board_id, CAST(start_date AS VARCHAR), length_days, members, vacation_days,
			planned_total, planned_completed, planned_remaining,
			unplanned_total, unplanned_completed, unplanned_remaining,
			retro_total, retro_completed, retro_remaining
		FROM sprint_summary WHERE board_id = ? ORDER BY start_date, id`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("select from sprint_summary: %w", err)
	}
	defer rows.Close()

	var summaries []sprint.Summary
	for rows.Next() {
		var sum sprint.Summary
		if err := rows.Scan(
			&sum.BoardID, &sum.StartDate, &sum.LengthDays, &sum.Members, &sum.VacationDays,
			&sum.PlannedTotal, &sum.PlannedCompleted, &sum.PlannedRemaining,
			&sum.UnplannedTotal, &sum.UnplannedCompleted, &sum.UnplannedRemaining,
			&sum.RetroTotal, &sum.RetroCompleted, &sum.RetroRemaining,
		); err != nil {
			return nil, fmt.Errorf("scan sprint_summary row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
