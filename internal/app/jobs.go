package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veloxmart/veloxmart/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedCancelStaleOrders()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedPurgeOprLogs()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedCancelStaleOrders cancels unpaid pending orders older than the
// configured age and returns their quantities to stock.
func (a *Application) SchedCancelStaleOrders() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	hours := a.settings.GetInt("order", "AutoCancelHours")
	if hours <= 0 {
		hours = 72
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	var stale []domain.Order
	a.gormDB.
		Where("status = ? AND payment_status = ? AND created_at < ?",
			domain.OrderStatusPending, domain.PaymentStatusPending, cutoff).
		Limit(200).
		Find(&stale)
	if len(stale) == 0 {
		return
	}

	for _, order := range stale {
		err := a.gormDB.Transaction(func(tx *gorm.DB) error {
			var items []domain.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := tx.Model(&domain.Product{}).
					Where("id = ?", item.ProductID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
			return tx.Model(&domain.Order{}).
				Where("id = ? AND status = ?", order.ID, domain.OrderStatusPending).
				Updates(map[string]interface{}{
					"status":     domain.OrderStatusCancelled,
					"updated_at": time.Now(),
				}).Error
		})
		if err != nil {
			zap.L().Error("failed to cancel stale order",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
			continue
		}
		zap.L().Info("cancelled stale order",
			zap.String("order_number", order.OrderNumber),
			zap.Int("age_hours", hours))
	}
}

// SchedPurgeOprLogs removes operation log entries past retention.
func (a *Application) SchedPurgeOprLogs() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	days := a.settings.GetInt("order", "OprLogDays")
	if days <= 0 {
		days = 365
	}
	a.gormDB.
		Where("opt_time < ?", time.Now().Add(-time.Hour*24*time.Duration(days))).
		Delete(&domain.SysOprLog{})
}
