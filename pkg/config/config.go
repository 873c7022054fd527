package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for practice-engine.
// Configuration comes from a YAML file with environment variable
// overrides. Secrets (database password, JWT secret) must only come
// from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Scheduling rules (rooms, fixed dentist rooms, shift hours)
	Scheduling SchedulingConfig `yaml:"scheduling"`

	// MigrationsPath is the directory holding SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"practice"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"practice_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// AuthConfig holds token-signing configuration.
type AuthConfig struct {
	// JWTSecret signs session tokens. Secret - environment only.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`

	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"12h"`
}

// SchedulingConfig carries the practice's room layout and shift hours.
// These used to live as constants next to the generator; injecting
// them keeps the scheduler deterministic under test and editable per
// deployment.
type SchedulingConfig struct {
	// Rooms is the rotation pool for dental assistants, in rotation order.
	Rooms []string `yaml:"rooms"`

	// DentistRooms maps a name fragment to that dentist's fixed room.
	// Matching is a case-insensitive substring test against the staff
	// member's full name.
	DentistRooms map[string]string `yaml:"dentist_rooms"`

	// Shift hours as HH:MM strings.
	WeekdayStart string `yaml:"weekday_start" env:"SCHED_WEEKDAY_START" env-default:"08:00"`
	WeekdayEnd   string `yaml:"weekday_end" env:"SCHED_WEEKDAY_END" env-default:"17:00"`
	SaturdayEnd  string `yaml:"saturday_end" env:"SCHED_SATURDAY_END" env-default:"13:00"`

	// RoomPlanPath optionally points at a standalone room-plan YAML
	// file that overrides Rooms and DentistRooms. It lets the practice
	// manager adjust the layout without touching server config.
	RoomPlanPath string `yaml:"room_plan_path" env:"SCHED_ROOM_PLAN" env-default:""`
}

// RoomPlan is the standalone room layout file format.
type RoomPlan struct {
	Rooms        []string          `yaml:"rooms"`
	DentistRooms map[string]string `yaml:"dentist_rooms"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. The version parameter is injected at build time.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.Scheduling.applyDefaults()

	if cfg.Scheduling.RoomPlanPath != "" {
		plan, err := LoadRoomPlan(cfg.Scheduling.RoomPlanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load room plan: %w", err)
		}
		cfg.Scheduling.apply(plan)
	}

	return cfg, nil
}

// LoadRoomPlan parses a standalone room-plan YAML file.
func LoadRoomPlan(path string) (*RoomPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var plan RoomPlan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(plan.Rooms) == 0 {
		return nil, fmt.Errorf("room plan %s defines no rooms", path)
	}

	return &plan, nil
}

func (c *SchedulingConfig) applyDefaults() {
	if len(c.Rooms) == 0 {
		c.Rooms = []string{"Black Room", "Red Room", "Pink Room"}
	}
	if len(c.DentistRooms) == 0 {
		c.DentistRooms = map[string]string{
			"Dr. Buleni":     "Black Room",
			"Dr. Ramakuwela": "Red Room",
			"Zwane":          "Pink Room",
		}
	}
}

func (c *SchedulingConfig) apply(plan *RoomPlan) {
	c.Rooms = plan.Rooms
	if len(plan.DentistRooms) > 0 {
		c.DentistRooms = plan.DentistRooms
	}
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
