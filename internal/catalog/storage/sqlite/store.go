// Package sqlite provides a SQLite-backed catalog storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	"github.com/anoikis-dev/rollwatch/internal/catalog/storage"
	"github.com/anoikis-dev/rollwatch/internal/catalog/storage/sqlite/migrations"
	"github.com/anoikis-dev/rollwatch/internal/platform/storage/sqlitemigrate"
)

// Store persists catalog reference data in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite catalog store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutShip inserts or replaces one ship entry.
func (s *Store) PutShip(ctx context.Context, ship catalog.Ship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	key := strings.ToLower(strings.TrimSpace(ship.Key))
	if key == "" {
		return fmt.Errorf("ship key is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO ships (key, name, cold_mass, hot_mass, size_class)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   name = excluded.name,
		   cold_mass = excluded.cold_mass,
		   hot_mass = excluded.hot_mass,
		   size_class = excluded.size_class`,
		key,
		strings.TrimSpace(ship.Name),
		ship.ColdMass,
		ship.HotMass,
		ship.SizeClass,
	)
	if err != nil {
		return fmt.Errorf("put ship: %w", err)
	}
	return nil
}

// PutWormhole inserts or replaces one wormhole entry.
func (s *Store) PutWormhole(ctx context.Context, wormhole catalog.Wormhole) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	code := strings.ToUpper(strings.TrimSpace(wormhole.Code))
	if code == "" {
		return fmt.Errorf("wormhole code is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO wormholes (code, capacity, restriction, description)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   capacity = excluded.capacity,
		   restriction = excluded.restriction,
		   description = excluded.description`,
		code,
		wormhole.Capacity,
		wormhole.Restriction,
		strings.TrimSpace(wormhole.Description),
	)
	if err != nil {
		return fmt.Errorf("put wormhole: %w", err)
	}
	return nil
}

// GetShip returns one ship by key.
func (s *Store) GetShip(ctx context.Context, key string) (catalog.Ship, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Ship{}, err
	}
	if s == nil || s.sqlDB == nil {
		return catalog.Ship{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT key, name, cold_mass, hot_mass, size_class
		   FROM ships
		  WHERE key = ?`,
		strings.ToLower(strings.TrimSpace(key)),
	)

	var ship catalog.Ship
	err := row.Scan(&ship.Key, &ship.Name, &ship.ColdMass, &ship.HotMass, &ship.SizeClass)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Ship{}, storage.ErrNotFound
		}
		return catalog.Ship{}, fmt.Errorf("get ship: %w", err)
	}
	return ship, nil
}

// GetWormhole returns one wormhole by code.
func (s *Store) GetWormhole(ctx context.Context, code string) (catalog.Wormhole, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Wormhole{}, err
	}
	if s == nil || s.sqlDB == nil {
		return catalog.Wormhole{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT code, capacity, restriction, description
		   FROM wormholes
		  WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code)),
	)

	var wormhole catalog.Wormhole
	err := row.Scan(&wormhole.Code, &wormhole.Capacity, &wormhole.Restriction, &wormhole.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Wormhole{}, storage.ErrNotFound
		}
		return catalog.Wormhole{}, fmt.Errorf("get wormhole: %w", err)
	}
	return wormhole, nil
}

// ListShips returns all ships ordered by size class, then key.
func (s *Store) ListShips(ctx context.Context) ([]catalog.Ship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT key, name, cold_mass, hot_mass, size_class
		   FROM ships
		  ORDER BY size_class ASC, key ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()

	var ships []catalog.Ship
	for rows.Next() {
		var ship catalog.Ship
		if err := rows.Scan(&ship.Key, &ship.Name, &ship.ColdMass, &ship.HotMass, &ship.SizeClass); err != nil {
			return nil, fmt.Errorf("list ships: %w", err)
		}
		ships = append(ships, ship)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	return ships, nil
}

// ListWormholes returns all wormholes ordered by capacity, then code.
func (s *Store) ListWormholes(ctx context.Context) ([]catalog.Wormhole, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT code, capacity, restriction, description
		   FROM wormholes
		  ORDER BY capacity ASC, code ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list wormholes: %w", err)
	}
	defer rows.Close()

	var wormholes []catalog.Wormhole
	for rows.Next() {
		var wormhole catalog.Wormhole
		if err := rows.Scan(&wormhole.Code, &wormhole.Capacity, &wormhole.Restriction, &wormhole.Description); err != nil {
			return nil, fmt.Errorf("list wormholes: %w", err)
		}
		wormholes = append(wormholes, wormhole)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list wormholes: %w", err)
	}
	return wormholes, nil
}

var _ storage.Store = (*Store)(nil)
