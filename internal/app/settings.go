package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
)

// settingsCacheTTL bounds how stale a cached sys_config value may be.
const settingsCacheTTL = 30 * time.Second

type settingsEntry struct {
	value    string
	loadedAt time.Time
}

// SettingsManager reads runtime settings from the sys_config table with a
// small read-through cache.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]settingsEntry
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{db: db, cache: make(map[string]settingsEntry)}
}

func (m *SettingsManager) get(category, name string) string {
	key := category + "." + name

	m.mu.RLock()
	entry, hit := m.cache[key]
	m.mu.RUnlock()
	if hit && time.Since(entry.loadedAt) < settingsCacheTTL {
		return entry.value
	}

	var cfg domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&cfg).Error
	if err != nil {
		if hit {
			return entry.value
		}
		return ""
	}

	m.mu.Lock()
	m.cache[key] = settingsEntry{value: cfg.Value, loadedAt: time.Now()}
	m.mu.Unlock()
	return cfg.Value
}

// GetString retrieves a string configuration value
func (m *SettingsManager) GetString(category, name string) string {
	return m.get(category, name)
}

// GetInt retrieves an int configuration value
func (m *SettingsManager) GetInt(category, name string) int {
	return cast.ToInt(m.get(category, name))
}

// GetInt64 retrieves an int64 configuration value
func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

// GetBool retrieves a boolean configuration value
func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// Set writes a configuration value and refreshes the cache.
func (m *SettingsManager) Set(category, name, value string) error {
	var cfg domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&cfg).Error
	if err == nil {
		err = m.db.Model(&domain.SysConfig{}).
			Where("id = ?", cfg.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	} else {
		err = m.db.Create(&domain.SysConfig{Type: category, Name: name, Value: value}).Error
	}
	if err != nil {
		zap.L().Error("failed to save setting",
			zap.String("category", category),
			zap.String("name", name),
			zap.Error(err))
		return err
	}

	m.mu.Lock()
	m.cache[category+"."+name] = settingsEntry{value: value, loadedAt: time.Now()}
	m.mu.Unlock()
	return nil
}
