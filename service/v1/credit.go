package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/user"
	types "github.com/johnasbury91/reachh/types/v1"
)

const (
	creditAlertLow   = 5
	creditAlertTTL   = 24 * time.Hour
	recentPurchaseN  = 10
	alertLevelLow    = "low"
	alertLevelEmpty  = "empty"
	creditAlertKeyNS = "credit_alert:"
)

// ProMonthly 目前唯一在售套餐
var ProMonthly = types.SubscriptionPlan{
	ID:              "pro_monthly",
	Name:            "Pro",
	Price:           decimal.NewFromInt(49900),
	PriceDisplay:    "$499",
	Interval:        "month",
	CreditsPerMonth: 250,
}

func GetCredits(ctx context.Context, s *svc.ServerCtx, userID string) (*types.CreditsResp, error) {
	profile, err := s.Dao.GetProfile(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "profile not found")
		}
		return nil, errcode.ErrPersistence
	}

	purchases, err := s.Dao.ListCompletedPurchases(ctx, userID, recentPurchaseN)
	if err != nil {
		xzap.WithContext(ctx).Error("list purchases", zap.Error(err))
		purchases = nil
	}
	if purchases == nil {
		purchases = []user.CreditPurchase{}
	}

	return &types.CreditsResp{
		Credits:         profile.Credits,
		Packages:        []types.SubscriptionPlan{ProMonthly},
		RecentPurchases: purchases,
	}, nil
}

// CheckCredits 余额检查，阈值告警经redis去重，24小时内只发一次
func CheckCredits(ctx context.Context, s *svc.ServerCtx, userID string) (*types.CreditCheckResp, error) {
	profile, err := s.Dao.GetProfile(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "profile not found")
		}
		return nil, errcode.ErrPersistence
	}

	resp := &types.CreditCheckResp{
		Credits: profile.Credits,
		Status:  string(profile.SubscriptionStatus),
	}

	level := ""
	if profile.Credits <= 0 {
		level = alertLevelEmpty
	} else if profile.Credits <= creditAlertLow {
		level = alertLevelLow
	}
	if level == "" || s.KV == nil {
		resp.Alert = level
		return resp, nil
	}

	key := creditAlertKeyNS + level + ":" + userID
	first, err := s.KV.SetNX(ctx, key, "1", creditAlertTTL)
	if err != nil {
		xzap.WithContext(ctx).Warn("credit alert dedup", zap.Error(err))
		return resp, nil
	}
	if first {
		resp.Alert = level
		xzap.WithContext(ctx).Info("credit alert",
			zap.String("user_id", userID),
			zap.String("level", level),
			zap.Int("credits", profile.Credits))
	}
	return resp, nil
}

func GetSubscription(ctx context.Context, s *svc.ServerCtx, userID string) (*types.SubscriptionResp, error) {
	profile, err := s.Dao.GetProfile(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "profile not found")
		}
		return nil, errcode.ErrPersistence
	}

	resp := &types.SubscriptionResp{
		IsSubscribed:     profile.SubscriptionStatus == user.SubscriptionActive,
		Status:           string(profile.SubscriptionStatus),
		CreditsRemaining: profile.Credits,
		CurrentPeriodEnd: profile.CurrentPeriodEnd,
		HasCustomer:      profile.CustomerID != "",
	}
	if profile.SubscriptionPlan == ProMonthly.ID {
		plan := ProMonthly
		resp.Plan = &plan
		resp.CreditsTotal = ProMonthly.CreditsPerMonth
	}
	return resp, nil
}
