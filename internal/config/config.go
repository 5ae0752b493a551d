package config

import (
	"time"

	"github.com/quietloop/reviser/internal/service/queue/sm2"
)

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SchedulerConfig holds the spaced-repetition policy parameters.
type SchedulerConfig struct {
	InitialIntervalDays     int     `yaml:"initial_interval_days"      env:"SCHEDULER_INITIAL_INTERVAL"      env-default:"1"`
	EasyInitialIntervalDays int     `yaml:"easy_initial_interval_days" env:"SCHEDULER_EASY_INITIAL_INTERVAL" env-default:"4"`
	DefaultEaseFactor       float64 `yaml:"default_ease_factor"        env:"SCHEDULER_DEFAULT_EASE"          env-default:"2.5"`
	MinEaseFactor           float64 `yaml:"min_ease_factor"            env:"SCHEDULER_MIN_EASE"              env-default:"1.0"`
	MaxEaseFactor           float64 `yaml:"max_ease_factor"            env:"SCHEDULER_MAX_EASE"              env-default:"5.0"`
	AgainPenalty            float64 `yaml:"again_penalty"              env:"SCHEDULER_AGAIN_PENALTY"         env-default:"0.20"`
	HardPenalty             float64 `yaml:"hard_penalty"               env:"SCHEDULER_HARD_PENALTY"          env-default:"0.15"`
	EasyBonus               float64 `yaml:"easy_bonus"                 env:"SCHEDULER_EASY_BONUS"            env-default:"0.15"`
	MaxIntervalDays         int     `yaml:"max_interval_days"          env:"SCHEDULER_MAX_INTERVAL"          env-default:"365"`
	RetentionDecay          float64 `yaml:"retention_decay"            env:"SCHEDULER_RETENTION_DECAY"       env-default:"2.5"`
}

// Params converts the scheduler block into the policy parameter set consumed
// by the review queue service.
func (s SchedulerConfig) Params() sm2.Params {
	return sm2.Params{
		InitialIntervalDays:     s.InitialIntervalDays,
		EasyInitialIntervalDays: s.EasyInitialIntervalDays,
		DefaultEase:             s.DefaultEaseFactor,
		MinEase:                 s.MinEaseFactor,
		MaxEase:                 s.MaxEaseFactor,
		AgainPenalty:            s.AgainPenalty,
		HardPenalty:             s.HardPenalty,
		EasyBonus:               s.EasyBonus,
		MaxIntervalDays:         s.MaxIntervalDays,
		RetentionDecay:          s.RetentionDecay,
	}
}

// NotifyConfig holds notification pipeline settings.
type NotifyConfig struct {
	BatchSize        int `yaml:"batch_size"         env:"NOTIFY_BATCH_SIZE"         env-default:"100"`
	OverdueScanLimit int `yaml:"overdue_scan_limit" env:"NOTIFY_OVERDUE_SCAN_LIMIT" env-default:"1000"`
}
