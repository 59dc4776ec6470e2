// Package store persists planning sessions to sqlite so planned routes can
// be reviewed after the fact.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aniti-robotics/flightplan/geo"
)

// ErrPlanNotFound reports a lookup for a plan id that was never recorded.
var ErrPlanNotFound = errors.New("store: plan not found")

// Store is a sqlite-backed archive of planning sessions.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the plan archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS plans (
			plan_id      TEXT PRIMARY KEY,
			start_lon    DOUBLE,
			start_lat    DOUBLE,
			start_alt    DOUBLE,
			goal_lon     DOUBLE,
			goal_lat     DOUBLE,
			goal_alt     DOUBLE,
			node_count   BIGINT,
			cost         DOUBLE,
			waypoints    TEXT,
			created_at   TEXT
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db}, nil
}

// PlanRecord is one archived planning session. Waypoints are the resolved
// local-frame coordinates of the (possibly simplified) path.
type PlanRecord struct {
	ID        string
	Start     geo.Point
	Goal      geo.Point
	Cost      float64
	Waypoints [][3]float64
	CreatedAt time.Time
}

// RecordPlan archives a planning session and returns its generated id.
func (s *Store) RecordPlan(start, goal geo.Point, cost float64, waypoints [][3]float64) (string, error) {
	blob, err := json.Marshal(waypoints)
	if err != nil {
		return "", fmt.Errorf("store: encode waypoints: %w", err)
	}
	id := uuid.NewString()
	_, err = s.Exec(`
		INSERT INTO plans (plan_id, start_lon, start_lat, start_alt, goal_lon, goal_lat, goal_alt, node_count, cost, waypoints, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		start.Lon, start.Lat, start.Alt,
		goal.Lon, goal.Lat, goal.Alt,
		len(waypoints), cost, string(blob),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("store: insert plan: %w", err)
	}
	return id, nil
}

// GetPlan fetches one archived plan by id.
func (s *Store) GetPlan(id string) (PlanRecord, error) {
	row := s.QueryRow(`
		SELECT plan_id, start_lon, start_lat, start_alt, goal_lon, goal_lat, goal_alt, cost, waypoints, created_at
		FROM plans WHERE plan_id = ?`, id)

	rec, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return rec, err
}

// ListPlans returns up to limit archived plans, most recent first.
func (s *Store) ListPlans(limit int) ([]PlanRecord, error) {
	rows, err := s.Query(`
		SELECT plan_id, start_lon, start_lat, start_alt, goal_lon, goal_lat, goal_alt, cost, waypoints, created_at
		FROM plans ORDER BY created_at DESC, plan_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	defer rows.Close()

	var out []PlanRecord
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (PlanRecord, error) {
	var rec PlanRecord
	var blob, created string
	err := row.Scan(
		&rec.ID,
		&rec.Start.Lon, &rec.Start.Lat, &rec.Start.Alt,
		&rec.Goal.Lon, &rec.Goal.Lat, &rec.Goal.Alt,
		&rec.Cost, &blob, &created,
	)
	if err != nil {
		return PlanRecord{}, err
	}
	if err := json.Unmarshal([]byte(blob), &rec.Waypoints); err != nil {
		return PlanRecord{}, fmt.Errorf("store: decode waypoints for %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return PlanRecord{}, fmt.Errorf("store: parse created_at for %s: %w", rec.ID, err)
	}
	return rec, nil
}
