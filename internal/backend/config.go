package backend

import (
	"errors"
	"fmt"

	"splitter/internal/config"
	"splitter/internal/storage"
)

// FromAppConfig picks the backend fields out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	bt, err := ParseBackendType(appConfig.DataBackend)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Type:         bt,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		Redis: storage.RedisOptions{
			Addr:      appConfig.RedisAddr,
			Password:  appConfig.RedisPassword,
			DB:        appConfig.RedisDB,
			KeyPrefix: appConfig.RedisKeyPrefix,
		},
		ContributionsKey: appConfig.ContributionsKey,
		SeedWithExamples: appConfig.SeedWithExamples,
	}, nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if !c.Type.IsValid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownBackend, c.Type))
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		errs = append(errs, errors.New("sqlite backend needs a database path"))
	}
	if c.Type == RedisBackend && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis backend needs an address"))
	}
	switch c.ContributionsKey {
	case "", config.ContributionsKey, config.IncomesKey:
	default:
		errs = append(errs, fmt.Errorf("contributions key %q is neither %q nor %q",
			c.ContributionsKey, config.ContributionsKey, config.IncomesKey))
	}
	return errors.Join(errs...)
}
