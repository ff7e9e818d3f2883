package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/user"
	types "github.com/johnasbury91/reachh/types/v1"
)

const (
	billingCheckoutCompleted = "checkout.session.completed"
	billingPaymentFailed     = "payment_intent.payment_failed"
	billingInvoicePaid       = "invoice.paid"
)

// HandleBillingEvent 处理支付平台回调。未识别的事件类型直接确认，
// 避免对方无限重试。
func HandleBillingEvent(ctx context.Context, s *svc.ServerCtx, ev types.BillingEvent) error {
	log := xzap.WithContext(ctx)

	switch ev.Type {
	case billingCheckoutCompleted:
		if ev.Data.PaymentIntentID == "" {
			return errcode.NewCustomErr("missing payment_intent_id")
		}
		// 入账额度以本地购买记录为准，不信任回调载荷
		purchase, err := s.Dao.GetPurchaseByIntent(ctx, ev.Data.PaymentIntentID)
		if err != nil {
			if dao.IsNotFound(err) {
				return errcode.NewErr(errcode.CodeNotFound, "purchase not found")
			}
			return errcode.ErrPersistence
		}
		if purchase.Status == user.PurchaseCompleted {
			// 重复投递，已入账
			return nil
		}
		if err := s.Dao.UpdatePurchaseStatus(ctx, ev.Data.PaymentIntentID, user.PurchaseCompleted); err != nil {
			log.Error("complete purchase", zap.String("intent", ev.Data.PaymentIntentID), zap.Error(err))
			return errcode.ErrPersistence
		}
		if purchase.Credits > 0 {
			if err := s.Dao.AddCredits(ctx, purchase.UserID, purchase.Credits); err != nil {
				log.Error("add credits", zap.String("user_id", purchase.UserID), zap.Error(err))
				return errcode.ErrPersistence
			}
		}
		log.Info("purchase completed",
			zap.String("user_id", purchase.UserID),
			zap.Int("credits", purchase.Credits))

	case billingPaymentFailed:
		if ev.Data.PaymentIntentID == "" {
			return errcode.NewCustomErr("missing payment_intent_id")
		}
		if err := s.Dao.UpdatePurchaseStatus(ctx, ev.Data.PaymentIntentID, user.PurchaseFailed); err != nil {
			log.Error("fail purchase", zap.String("intent", ev.Data.PaymentIntentID), zap.Error(err))
			return errcode.ErrPersistence
		}

	case billingInvoicePaid:
		if ev.Data.UserID == "" {
			return errcode.NewCustomErr("missing user_id")
		}
		var periodEnd *time.Time
		if ev.Data.PeriodEnd != "" {
			if parsed, err := time.Parse(time.RFC3339, ev.Data.PeriodEnd); err == nil {
				periodEnd = &parsed
			}
		}
		if err := s.Dao.UpdateSubscription(ctx, ev.Data.UserID, user.SubscriptionActive, ProMonthly.ID, periodEnd); err != nil {
			log.Error("update subscription", zap.String("user_id", ev.Data.UserID), zap.Error(err))
			return errcode.ErrPersistence
		}
		// 周期滚动，额度重置而非累加
		if err := s.Dao.ResetCredits(ctx, ev.Data.UserID, ProMonthly.CreditsPerMonth); err != nil {
			log.Error("reset credits", zap.String("user_id", ev.Data.UserID), zap.Error(err))
			return errcode.ErrPersistence
		}
		log.Info("subscription renewed", zap.String("user_id", ev.Data.UserID))

	default:
		log.Info("ignored billing event", zap.String("type", ev.Type))
	}
	return nil
}
