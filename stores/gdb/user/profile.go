package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionPastDue SubscriptionStatus = "past_due"
	SubscriptionNone    SubscriptionStatus = "none"
)

// UserProfile 用户档案，Credits为剩余额度
type UserProfile struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"id"`
	Email              string             `gorm:"size:200" json:"email"`
	FullName           string             `gorm:"size:200" json:"full_name"`
	Credits            int                `gorm:"default:0" json:"credits"`
	SubscriptionStatus SubscriptionStatus `gorm:"size:20;default:none" json:"subscription_status"`
	SubscriptionPlan   string             `gorm:"size:50" json:"subscription_plan"`
	CustomerID         string             `gorm:"size:100" json:"customer_id"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func UserProfileTableName() string {
	return "user_profiles"
}

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// CreditPurchase 额度购买记录，金额单位为分
type CreditPurchase struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"size:36;not null;index" json:"user_id"`
	Credits         int             `gorm:"not null" json:"credits"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Status          PurchaseStatus  `gorm:"size:20;default:pending" json:"status"`
	PaymentIntentID string          `gorm:"size:100;index" json:"payment_intent_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

func CreditPurchaseTableName() string {
	return "credit_purchases"
}
