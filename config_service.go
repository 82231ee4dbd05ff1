package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"slidesmith/config"
)

// ConfigProvider reads the effective configuration.
type ConfigProvider interface {
	GetConfig() (config.Config, error)
}

// ConfigPersister writes configuration changes to disk.
type ConfigPersister interface {
	SaveConfig(cfg config.Config) error
}

// ConfigNotifier registers configuration change callbacks.
type ConfigNotifier interface {
	OnConfigChanged(callback func(config.Config))
}

// ConfigService owns loading and persisting the JSON config file.
// Implements Service, ConfigProvider, ConfigPersister, ConfigNotifier.
type ConfigService struct {
	storageDir string
	logger     func(string)
	callbacks  []func(config.Config)
	mu         sync.RWMutex
}

// NewConfigService creates a new ConfigService.
func NewConfigService(logger func(string)) *ConfigService {
	return &ConfigService{
		logger:    logger,
		callbacks: make([]func(config.Config), 0),
	}
}

// Name returns the service name.
func (cs *ConfigService) Name() string {
	return "config"
}

// Initialize makes sure the storage directory exists.
func (cs *ConfigService) Initialize(ctx context.Context) error {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return WrapError("config", "Initialize", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "Initialize", fmt.Errorf("failed to create storage dir: %w", err))
	}
	cs.log(fmt.Sprintf("ConfigService initialized, storage dir: %s", dir))
	return nil
}

// Shutdown is a no-op.
func (cs *ConfigService) Shutdown() error {
	return nil
}

// GetStorageDir returns the storage directory (~/Slidesmith by default).
func (cs *ConfigService) GetStorageDir() (string, error) {
	cs.mu.RLock()
	sd := cs.storageDir
	cs.mu.RUnlock()

	if sd != "" {
		return sd, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError("config", "GetStorageDir", err)
	}
	return filepath.Join(home, "Slidesmith"), nil
}

// SetStorageDir overrides the storage directory (used by tests).
func (cs *ConfigService) SetStorageDir(dir string) {
	cs.mu.Lock()
	cs.storageDir = dir
	cs.mu.Unlock()
}

// GetConfigPath returns the config file path.
func (cs *ConfigService) GetConfigPath() (string, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfig loads the config file from disk, falling back to defaults
// when no file has been saved yet.
func (cs *ConfigService) GetConfig() (config.Config, error) {
	path, err := cs.GetConfigPath()
	if err != nil {
		return config.Config{}, err
	}

	defaults := config.Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		dir, _ := cs.GetStorageDir()
		defaults.DataCacheDir = dir
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, WrapError("config", "GetConfig", err)
	}

	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.Config{}, WrapError("config", "GetConfig", err)
	}

	// Fill defaults for fields older config files may not have
	if cfg.DataCacheDir == "" {
		dir, _ := cs.GetStorageDir()
		cfg.DataCacheDir = dir
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaults.ModelName
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.RateLimit.MinIntervalSeconds <= 0 {
		cfg.RateLimit.MinIntervalSeconds = defaults.RateLimit.MinIntervalSeconds
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = defaults.RateLimit.Burst
	}
	if cfg.RateLimit.TTLMinutes <= 0 {
		cfg.RateLimit.TTLMinutes = defaults.RateLimit.TTLMinutes
	}

	return cfg, nil
}

// SaveConfig writes the config to disk and fires all registered callbacks.
func (cs *ConfigService) SaveConfig(cfg config.Config) error {
	if cfg.DataCacheDir != "" {
		info, err := os.Stat(cfg.DataCacheDir)
		if err != nil {
			if os.IsNotExist(err) {
				return WrapError("config", "SaveConfig", fmt.Errorf("data cache directory does not exist: %s", cfg.DataCacheDir))
			}
			return WrapError("config", "SaveConfig", err)
		}
		if !info.IsDir() {
			return WrapError("config", "SaveConfig", fmt.Errorf("data cache path is not a directory: %s", cfg.DataCacheDir))
		}
	}

	dir, err := cs.GetStorageDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to create storage dir: %w", err))
	}

	path := filepath.Join(dir, "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to marshal config: %w", err))
	}

	// 0600: the file contains API keys
	if err := os.WriteFile(path, data, 0600); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to write config file: %w", err))
	}

	cs.log("Configuration saved to disk")

	cs.NotifyConfigChanged(cfg)

	return nil
}

// OnConfigChanged registers a configuration change callback.
func (cs *ConfigService) OnConfigChanged(callback func(config.Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.callbacks = append(cs.callbacks, callback)
}

// NotifyConfigChanged fires all registered callbacks.
func (cs *ConfigService) NotifyConfigChanged(cfg config.Config) {
	cs.mu.RLock()
	cbs := make([]func(config.Config), len(cs.callbacks))
	copy(cbs, cs.callbacks)
	cs.mu.RUnlock()

	for _, cb := range cbs {
		cb(cfg)
	}
}

func (cs *ConfigService) log(msg string) {
	if cs.logger != nil {
		cs.logger(msg)
	}
}
