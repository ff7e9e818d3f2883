package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/johnasbury91/reachh/stores/gdb/user"
)

func (d *Dao) GetProfile(c context.Context, userID string) (*user.UserProfile, error) {
	var p user.UserProfile
	err := d.DB.WithContext(c).
		Table(user.UserProfileTableName()).Where("id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Dao) AddCredits(c context.Context, userID string, credits int) error {
	return d.DB.WithContext(c).
		Table(user.UserProfileTableName()).Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", credits)).Error
}

// ResetCredits 订阅周期滚动，额度重置为套餐月度配额
func (d *Dao) ResetCredits(c context.Context, userID string, credits int) error {
	return d.DB.WithContext(c).
		Table(user.UserProfileTableName()).Where("id = ?", userID).
		Update("credits", credits).Error
}

// UpdateSubscription 订阅状态变更，periodEnd为空时不覆盖
func (d *Dao) UpdateSubscription(c context.Context, userID string, status user.SubscriptionStatus, plan string, periodEnd *time.Time) error {
	fields := map[string]interface{}{
		"subscription_status": status,
	}
	if plan != "" {
		fields["subscription_plan"] = plan
	}
	if periodEnd != nil {
		fields["current_period_end"] = periodEnd
	}
	return d.DB.WithContext(c).
		Table(user.UserProfileTableName()).Where("id = ?", userID).
		Updates(fields).Error
}

func (d *Dao) GetPurchaseByIntent(c context.Context, intentID string) (*user.CreditPurchase, error) {
	var p user.CreditPurchase
	err := d.DB.WithContext(c).
		Table(user.CreditPurchaseTableName()).Where("payment_intent_id = ?", intentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *Dao) UpdatePurchaseStatus(c context.Context, intentID string, status user.PurchaseStatus) error {
	return d.DB.WithContext(c).
		Table(user.CreditPurchaseTableName()).Where("payment_intent_id = ?", intentID).
		Update("status", status).Error
}

func (d *Dao) ListCompletedPurchases(c context.Context, userID string, limit int) ([]user.CreditPurchase, error) {
	var purchases []user.CreditPurchase
	err := d.DB.WithContext(c).
		Table(user.CreditPurchaseTableName()).
		Where("user_id = ? and status = ?", userID, user.PurchaseCompleted).
		Order("created_at desc").Limit(limit).
		Find(&purchases).Error
	return purchases, err
}
