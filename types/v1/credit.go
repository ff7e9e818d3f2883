package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnasbury91/reachh/stores/gdb/user"
)

// SubscriptionPlan 订阅套餐，价格单位为分
type SubscriptionPlan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	PriceDisplay    string          `json:"priceDisplay"`
	Interval        string          `json:"interval"`
	CreditsPerMonth int             `json:"commentsPerMonth"`
}

type CreditsResp struct {
	Credits         int                   `json:"credits"`
	Packages        []SubscriptionPlan    `json:"packages"`
	RecentPurchases []user.CreditPurchase `json:"recentPurchases"`
}

type CreditCheckResp struct {
	Credits int    `json:"credits"`
	Alert   string `json:"alert,omitempty"`
	Status  string `json:"status,omitempty"`
}

type SubscriptionResp struct {
	IsSubscribed     bool              `json:"isSubscribed"`
	Status           string            `json:"status"`
	Plan             *SubscriptionPlan `json:"plan"`
	CreditsRemaining int               `json:"commentsRemaining"`
	CreditsTotal     int               `json:"commentsTotal"`
	CurrentPeriodEnd *time.Time        `json:"currentPeriodEnd"`
	HasCustomer      bool              `json:"hasCustomer"`
}

// BillingEvent 支付平台webhook事件
type BillingEvent struct {
	Type string `json:"type"`
	Data struct {
		UserID          string          `json:"user_id"`
		Credits         int             `json:"credits"`
		Amount          decimal.Decimal `json:"amount"`
		PaymentIntentID string          `json:"payment_intent_id"`
		PeriodEnd       string          `json:"period_end"`
	} `json:"data"`
}

type BillingWebhookResp struct {
	Received bool `json:"received"`
}
