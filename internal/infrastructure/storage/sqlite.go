package storage

import (
	"database/sql"
	"fmt"
	"labyrinth-server/pkg/logger"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteSaveState хранит бит "монстр побежден" для пары (карта, индекс сущности).
// Реализует systems.SaveState.
type SQLiteSaveState struct {
	db *sql.DB
}

// OpenSQLite открывает (или создает) базу сохранения
func OpenSQLite(path string) (*SQLiteSaveState, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Симуляция однопоточная, второе соединение не нужно
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "save_state",
		"path":      path,
	}).Info("Save state opened.")
	return &SQLiteSaveState{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS defeated (
			map_id INTEGER NOT NULL,
			entity_index INTEGER NOT NULL,
			defeated_at TEXT NOT NULL,
			PRIMARY KEY (map_id, entity_index)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteSaveState) IsDefeated(mapID, entityIndex int) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM defeated WHERE map_id=? AND entity_index=?`, mapID, entityIndex).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("read defeated (%d,%d): %w", mapID, entityIndex, err)
	}
	return n > 0, nil
}

// MarkDefeated идемпотентна: повторная отметка не меняет запись
func (s *SQLiteSaveState) MarkDefeated(mapID, entityIndex int) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO defeated(map_id, entity_index, defeated_at) VALUES (?, ?, ?)`,
		mapID, entityIndex, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write defeated (%d,%d): %w", mapID, entityIndex, err)
	}
	return nil
}

// Defeated возвращает индексы побежденных сущностей карты по возрастанию
func (s *SQLiteSaveState) Defeated(mapID int) ([]int, error) {
	rows, err := s.db.Query(`SELECT entity_index FROM defeated WHERE map_id=? ORDER BY entity_index`, mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (s *SQLiteSaveState) Close() error {
	return s.db.Close()
}
