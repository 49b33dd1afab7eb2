package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
	"github.com/veloxmart/veloxmart/pkg/common"
)

// defaultSettings are created in sys_config when absent.
var defaultSettings = []struct {
	Sort    int
	Type    string
	Name    string
	Default string
	Remark  string
}{
	{1, "system", "SiteName", "VeloxMart", "Marketplace display name"},
	{2, "order", "AutoCancelHours", "72", "Hours before an unpaid pending order is cancelled"},
	{3, "order", "OprLogDays", "365", "Days to keep operation log entries"},
}

func (a *Application) checkSuper() {
	const superEmail = "admin@veloxmart.local"
	const defaultPassword = "veloxmart"

	var admin domain.User
	err := a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Name:      "administrator",
			Password:  string(hashed),
			Role:      domain.RoleAdmin,
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	if admin.Role == domain.RoleAdmin && admin.Status == common.ENABLED {
		return
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(map[string]interface{}{
		"role":       domain.RoleAdmin,
		"status":     common.ENABLED,
		"updated_at": time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin account", zap.String("email", superEmail))
}

func (a *Application) checkSettings() {
	for _, s := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", s.Type, s.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   s.Sort,
				Type:   s.Type,
				Name:   s.Name,
				Value:  s.Default,
				Remark: s.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", s.Type+"."+s.Name),
				zap.String("default", s.Default))
		}
	}
}

// checkRootCategories seeds a minimal category tree on first start.
func (a *Application) checkRootCategories() {
	var count int64
	a.gormDB.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		return
	}
	roots := map[string]string{
		"Groceries":      "groceries",
		"Electronics":    "electronics",
		"Fashion":        "fashion",
		"Home & Kitchen": "home-kitchen",
	}
	for name, slug := range roots {
		a.gormDB.Create(&domain.Category{
			ID:       common.UUIDint64(),
			Name:     name,
			Slug:     slug,
			IsActive: true,
		})
	}
	zap.L().Info("seeded root categories")
}
