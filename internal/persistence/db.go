// Package persistence provides SQLite-based settlement state storage.
// Saves are full-replace snapshots inside one transaction; loads
// validate every record and fall back to empty structures on a
// malformed payload rather than failing the process.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talven/hearthold/internal/construction"
	"github.com/talven/hearthold/internal/dynasty"
	"github.com/talven/hearthold/internal/engine"
	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
	"github.com/talven/hearthold/internal/workforce"
)

// DB wraps a SQLite connection for settlement persistence.
type DB struct {
	conn     *sqlx.DB
	validate *validator.Validate
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, validate: validator.New()}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		age_days INTEGER NOT NULL,
		health REAL NOT NULL,
		happiness REAL NOT NULL,
		status TEXT NOT NULL,
		skills_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS buildings (
		id INTEGER PRIMARY KEY,
		type INTEGER NOT NULL,
		level INTEGER NOT NULL,
		built INTEGER NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		started_day INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sites (
		building_id INTEGER PRIMARY KEY,
		building_type INTEGER NOT NULL,
		level INTEGER NOT NULL,
		points_required REAL NOT NULL,
		points_completed REAL NOT NULL,
		points_remaining REAL NOT NULL,
		assigned_builders_json TEXT NOT NULL,
		daily_progress REAL NOT NULL,
		start_day INTEGER NOT NULL,
		technology_discount REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignments (
		building_id INTEGER NOT NULL,
		job_type TEXT NOT NULL,
		worker_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_day ON events(day);
	CREATE INDEX IF NOT EXISTS idx_assignments_building ON assignments(building_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type workerRecord struct {
	ID         string  `db:"id" validate:"required"`
	Name       string  `db:"name" validate:"required"`
	AgeDays    int     `db:"age_days" validate:"gte=0"`
	Health     float64 `db:"health" validate:"gte=0,lte=100"`
	Happiness  float64 `db:"happiness" validate:"gte=0,lte=100"`
	Status     string  `db:"status"`
	SkillsJSON string  `db:"skills_json"`
}

type buildingRecord struct {
	ID         uint64 `db:"id"`
	Type       uint8  `db:"type" validate:"lt=10"`
	Level      int    `db:"level" validate:"gte=1"`
	Built      int    `db:"built"`
	PosX       int    `db:"pos_x"`
	PosY       int    `db:"pos_y"`
	StartedDay int    `db:"started_day"`
}

type siteRecord struct {
	BuildingID      uint64  `db:"building_id"`
	BuildingType    uint8   `db:"building_type" validate:"lt=10"`
	Level           int     `db:"level" validate:"gte=1"`
	PointsRequired  float64 `db:"points_required" validate:"gt=0"`
	PointsCompleted float64 `db:"points_completed" validate:"gte=0"`
	PointsRemaining float64 `db:"points_remaining" validate:"gte=0"`
	BuildersJSON    string  `db:"assigned_builders_json"`
	DailyProgress   float64 `db:"daily_progress" validate:"gte=0"`
	StartDay        int     `db:"start_day"`
	TechDiscount    float64 `db:"technology_discount"`
}

type assignmentRecord struct {
	BuildingID uint64 `db:"building_id"`
	JobType    string `db:"job_type"`
	WorkerID   string `db:"worker_id"`
}

// SaveState snapshots the complete simulation. Each save gets a fresh
// snapshot ID in meta.
func (db *DB) SaveState(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"workers", "buildings", "sites", "assignments"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveWorkers(tx, sim.Pool.Workers); err != nil {
		return fmt.Errorf("save workers: %w", err)
	}
	if err := saveBuildings(tx, sim.Village.Buildings); err != nil {
		return fmt.Errorf("save buildings: %w", err)
	}
	if err := saveSites(tx, sim.Construction.Sites()); err != nil {
		return fmt.Errorf("save sites: %w", err)
	}
	if err := saveAssignments(tx, sim.Jobs.Assignments()); err != nil {
		return fmt.Errorf("save assignments: %w", err)
	}
	if err := saveEvents(tx, sim.RecentEvents(0)); err != nil {
		return fmt.Errorf("save events: %w", err)
	}

	houseJSON, _ := json.Marshal(sim.House)
	storesJSON, _ := json.Marshal(sim.Village.Stores)
	meta := map[string]string{
		"snapshot_id": uuid.NewString(),
		"seed":        strconv.FormatInt(sim.Seed(), 10),
		"day":         strconv.Itoa(sim.Day),
		"tech_level":  strconv.Itoa(sim.TechLevel),
		"name":        sim.Village.Name,
		"wall_level":  strconv.Itoa(sim.Village.WallLevel),
		"house":       string(houseJSON),
		"stores":      string(storesJSON),
	}
	for k, v := range meta {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("state saved",
		"day", sim.Day,
		"workers", len(sim.Pool.Workers),
		"buildings", len(sim.Village.Buildings),
		"sites", len(sim.Construction.Sites()),
	)
	return nil
}

func saveWorkers(tx *sqlx.Tx, workers []*workforce.Worker) error {
	stmt, err := tx.Preparex(`INSERT INTO workers
		(id, name, age_days, health, happiness, status, skills_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range workers {
		skillsJSON, _ := json.Marshal(w.Skills)
		if _, err := stmt.Exec(w.ID, w.Name, w.AgeDays, w.Health, w.Happiness,
			w.Status.Name(), string(skillsJSON)); err != nil {
			return fmt.Errorf("insert worker %s: %w", w.ID, err)
		}
	}
	return nil
}

func saveBuildings(tx *sqlx.Tx, buildings []*village.Building) error {
	for _, b := range buildings {
		built := 0
		if b.Built {
			built = 1
		}
		if _, err := tx.Exec(`INSERT INTO buildings
			(id, type, level, built, pos_x, pos_y, started_day)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Type, b.Level, built, b.Position.X, b.Position.Y, b.StartedDay,
		); err != nil {
			return fmt.Errorf("insert building %d: %w", b.ID, err)
		}
	}
	return nil
}

func saveSites(tx *sqlx.Tx, sites []*construction.Site) error {
	for _, s := range sites {
		buildersJSON, _ := json.Marshal(s.AssignedBuilders)
		if _, err := tx.Exec(`INSERT INTO sites
			(building_id, building_type, level, points_required, points_completed,
			 points_remaining, assigned_builders_json, daily_progress, start_day,
			 technology_discount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.BuildingID, s.BuildingType, s.Level, s.TotalPoints, s.CurrentPoints,
			s.PointsRemaining(), string(buildersJSON), s.DailyProgress, s.StartDay,
			s.TechDiscount,
		); err != nil {
			return fmt.Errorf("insert site %d: %w", s.BuildingID, err)
		}
	}
	return nil
}

func saveAssignments(tx *sqlx.Tx, assignments map[village.BuildingID]map[village.JobType][]string) error {
	for bid, byJob := range assignments {
		for job, workers := range byJob {
			for _, wid := range workers {
				if _, err := tx.Exec(
					"INSERT INTO assignments (building_id, job_type, worker_id) VALUES (?, ?, ?)",
					bid, job.Name(), wid,
				); err != nil {
					return fmt.Errorf("insert assignment: %w", err)
				}
			}
		}
	}
	return nil
}

func saveEvents(tx *sqlx.Tx, events []engine.Event) error {
	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (day, category, description) VALUES (?, ?, ?)",
			e.Day, e.Category, e.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

// HasState reports whether a saved snapshot exists.
func (db *DB) HasState() bool {
	var day string
	err := db.conn.Get(&day, "SELECT value FROM meta WHERE key = 'day'")
	return err == nil
}

// LoadState restores a simulation from the last snapshot. Records
// failing validation are skipped with a warning; a missing or broken
// snapshot yields a fresh empty simulation for the stored seed.
func (db *DB) LoadState() (*engine.Simulation, error) {
	seed, _ := db.metaInt64("seed")
	day, _ := db.metaInt("day")
	tech, _ := db.metaInt("tech_level")
	name, err := db.Meta("name")
	if err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}

	sim := engine.Restore(seed, day, tech, name)
	if wall, err := db.metaInt("wall_level"); err == nil {
		sim.Village.WallLevel = wall
	}
	if houseJSON, err := db.Meta("house"); err == nil {
		var house dynasty.House
		if jsonErr := json.Unmarshal([]byte(houseJSON), &house); jsonErr == nil {
			house.Restore(seed)
			sim.House = &house
		} else {
			slog.Warn("malformed house payload, keeping fresh dynasty", "error", jsonErr)
		}
	}
	if storesJSON, err := db.Meta("stores"); err == nil {
		var stores [village.NumResources]float64
		if jsonErr := json.Unmarshal([]byte(storesJSON), &stores); jsonErr == nil {
			sim.Village.Stores = stores
		}
	}

	if err := db.loadWorkers(sim); err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}
	if err := db.loadBuildings(sim); err != nil {
		return nil, fmt.Errorf("load buildings: %w", err)
	}
	if err := db.loadSites(sim); err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	if err := db.loadAssignments(sim); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	sim.Jobs.UpdateAvailableJobs()

	slog.Info("state restored",
		"day", sim.Day,
		"workers", len(sim.Pool.Workers),
		"buildings", len(sim.Village.Buildings),
		"sites", len(sim.Construction.Sites()),
	)
	return sim, nil
}

func (db *DB) loadWorkers(sim *engine.Simulation) error {
	var records []workerRecord
	if err := db.conn.Select(&records, "SELECT * FROM workers"); err != nil {
		return err
	}
	for _, r := range records {
		if err := db.validate.Struct(r); err != nil {
			slog.Warn("skipping invalid worker record", "worker", r.ID, "error", err)
			continue
		}
		skills := make(map[skill.Name]int)
		if err := json.Unmarshal([]byte(r.SkillsJSON), &skills); err != nil {
			slog.Warn("malformed skills payload, resetting", "worker", r.ID)
			skills = make(map[skill.Name]int)
		}
		sim.Pool.Add(&workforce.Worker{
			ID:        r.ID,
			Name:      r.Name,
			AgeDays:   r.AgeDays,
			Health:    r.Health,
			Happiness: r.Happiness,
			Skills:    skills,
			Status:    workforce.StatusByName(r.Status),
		})
	}
	return nil
}

func (db *DB) loadBuildings(sim *engine.Simulation) error {
	var records []buildingRecord
	if err := db.conn.Select(&records, "SELECT * FROM buildings ORDER BY id"); err != nil {
		return err
	}
	for _, r := range records {
		if err := db.validate.Struct(r); err != nil {
			slog.Warn("skipping invalid building record", "building", r.ID, "error", err)
			continue
		}
		sim.Village.Restore(&village.Building{
			ID:         village.BuildingID(r.ID),
			Type:       village.BuildingType(r.Type),
			Level:      r.Level,
			Built:      r.Built != 0,
			Position:   village.Coord{X: r.PosX, Y: r.PosY},
			StartedDay: r.StartedDay,
		})
	}
	return nil
}

func (db *DB) loadSites(sim *engine.Simulation) error {
	var records []siteRecord
	if err := db.conn.Select(&records, "SELECT * FROM sites ORDER BY start_day, building_id"); err != nil {
		return err
	}
	for _, r := range records {
		if err := db.validate.Struct(r); err != nil {
			slog.Warn("skipping invalid site record", "building", r.BuildingID, "error", err)
			continue
		}
		site := &construction.Site{
			BuildingID:    village.BuildingID(r.BuildingID),
			BuildingType:  village.BuildingType(r.BuildingType),
			Level:         r.Level,
			TotalPoints:   r.PointsRequired,
			CurrentPoints: r.PointsCompleted,
			DailyProgress: r.DailyProgress,
			StartDay:      r.StartDay,
			TechDiscount:  r.TechDiscount,
		}
		if json.Unmarshal([]byte(r.BuildersJSON), &site.AssignedBuilders) != nil {
			site.AssignedBuilders = nil
		}
		sim.Construction.Restore(site)
	}
	return nil
}

func (db *DB) loadAssignments(sim *engine.Simulation) error {
	var records []assignmentRecord
	if err := db.conn.Select(&records, "SELECT * FROM assignments"); err != nil {
		return err
	}
	for _, r := range records {
		job, ok := village.JobTypeByName(r.JobType)
		if !ok {
			slog.Warn("skipping assignment with unknown job", "job", r.JobType)
			continue
		}
		sim.Jobs.RestoreAssignment(village.BuildingID(r.BuildingID), job, r.WorkerID)
	}
	return nil
}

// Meta retrieves a metadata value.
func (db *DB) Meta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: not set", key)
	}
	return value, err
}

func (db *DB) metaInt(key string) (int, error) {
	v, err := db.Meta(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (db *DB) metaInt64(key string) (int64, error) {
	v, err := db.Meta(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// RecentEvents returns the most recent n persisted events.
func (db *DB) RecentEvents(n int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT day, category, description FROM events ORDER BY id DESC LIMIT ?", n)
	return events, err
}
