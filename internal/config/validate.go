package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	if c.Notify.BatchSize <= 0 {
		return fmt.Errorf("notify: batch_size must be > 0 (got %d)", c.Notify.BatchSize)
	}
	if c.Notify.OverdueScanLimit <= 0 {
		return fmt.Errorf("notify: overdue_scan_limit must be > 0 (got %d)", c.Notify.OverdueScanLimit)
	}

	return nil
}

func (s *SchedulerConfig) validate() error {
	if s.InitialIntervalDays < 1 || s.EasyInitialIntervalDays < 1 {
		return fmt.Errorf("initial intervals must be >= 1")
	}
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.MaxEaseFactor <= s.MinEaseFactor {
		return fmt.Errorf("max_ease_factor must be > min_ease_factor (got %v <= %v)", s.MaxEaseFactor, s.MinEaseFactor)
	}
	if s.DefaultEaseFactor < s.MinEaseFactor || s.DefaultEaseFactor > s.MaxEaseFactor {
		return fmt.Errorf("default_ease_factor %v outside [%v, %v]", s.DefaultEaseFactor, s.MinEaseFactor, s.MaxEaseFactor)
	}
	if s.AgainPenalty < 0 || s.HardPenalty < 0 || s.EasyBonus < 0 {
		return fmt.Errorf("ease deltas must be >= 0")
	}
	if s.MaxIntervalDays < 1 {
		return fmt.Errorf("max_interval_days must be >= 1 (got %d)", s.MaxIntervalDays)
	}
	if s.RetentionDecay <= 0 {
		return fmt.Errorf("retention_decay must be > 0 (got %v)", s.RetentionDecay)
	}
	return nil
}
