package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultCreateMissingGroups    = true
	DefaultExistenceCacheTTL      = 30 * time.Second
	DefaultBatchDeleteMaxAttempts = 3
)

// MigrationConfig fields are pointers so that an explicit false survives
// layering over a true default. Nil means unset.
type MigrationConfig struct {
	CreateMissingGroups *bool `koanf:"create_missing_groups" mapstructure:"create_missing_groups"`
}

// GroupCreationEnabled reports the effective create_missing_groups value.
func (c MigrationConfig) GroupCreationEnabled() bool {
	if c.CreateMissingGroups == nil {
		return DefaultCreateMissingGroups
	}
	return *c.CreateMissingGroups
}

// ReconcileConfig.ExistenceCacheTTL is a pointer so that an explicit 0
// disables the cache. Nil means unset.
type ReconcileConfig struct {
	ExistenceCacheTTL *time.Duration `koanf:"existence_cache_ttl" mapstructure:"existence_cache_ttl"`
}

// CacheTTL reports the effective existence_cache_ttl value.
func (c ReconcileConfig) CacheTTL() time.Duration {
	if c.ExistenceCacheTTL == nil {
		return DefaultExistenceCacheTTL
	}
	return *c.ExistenceCacheTTL
}

type PublicConfig struct {
	Account string `koanf:"account" mapstructure:"account"`
}

type JobsConfig struct {
	BatchDeleteMaxAttempts int `koanf:"batch_delete_max_attempts" mapstructure:"batch_delete_max_attempts"`
}

type Config struct {
	ServiceName string          `koanf:"service_name" mapstructure:"service_name"`
	Migration   MigrationConfig `koanf:"migration" mapstructure:"migration"`
	Reconcile   ReconcileConfig `koanf:"reconcile" mapstructure:"reconcile"`
	Public      PublicConfig    `koanf:"public" mapstructure:"public"`
	Jobs        JobsConfig      `koanf:"jobs" mapstructure:"jobs"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "contacts",
		Migration:   MigrationConfig{CreateMissingGroups: Bool(DefaultCreateMissingGroups)},
		Reconcile:   ReconcileConfig{ExistenceCacheTTL: Duration(DefaultExistenceCacheTTL)},
		Jobs:        JobsConfig{BatchDeleteMaxAttempts: DefaultBatchDeleteMaxAttempts},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Reconcile.CacheTTL() < 0 {
		return fmt.Errorf("core: reconcile.existence_cache_ttl must not be negative")
	}
	if c.Jobs.BatchDeleteMaxAttempts < 1 {
		return fmt.Errorf("core: jobs.batch_delete_max_attempts must be at least 1")
	}
	return nil
}

// Bool returns a pointer to value, for optional config fields.
func Bool(value bool) *bool {
	return &value
}

// Duration returns a pointer to value, for optional config fields.
func Duration(value time.Duration) *time.Duration {
	return &value
}
