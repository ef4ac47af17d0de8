// Package sqlite: встроенное хранилище для развёртывания на одном узле без PostgreSQL.
// Хранит те же таблицы, что и postgres: members и bot_settings.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	// Регистрирует драйвер "sqlite" (чистый Go, без cgo).
	_ "modernc.org/sqlite"
)

// DB: открытая база SQLite.
type DB struct {
	db *sql.DB
}

// Open открывает (или создаёт) базу по пути path, настраивает PRAGMA и применяет миграции.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("каталог для SQLite: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("открытие SQLite: %w", err)
	}

	// SQLite: один писатель
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("миграции SQLite: %w", err)
	}

	log.WithField("path", path).Info("SQLite готова")
	return &DB{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает базу.
func (d *DB) Close() error {
	return d.db.Close()
}

// Settings: хранилище настроек поверх этой базы.
func (d *DB) Settings() *SettingsRepository {
	return &SettingsRepository{db: d.db}
}

// Members: хранилище участников поверх этой базы.
func (d *DB) Members() *MemberRepository {
	return &MemberRepository{db: d.db}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
