package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/affiliate"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	trackingKindClick      = "click"
	trackingKindConversion = "conversion"
	trackingTimeout        = 2 * time.Second
)

// AffiliateUseCase строит партнёрские ссылки и принимает события трекинга.
// Трекинг работает по принципу fire-and-forget: сбой хранилища или шины не ломает запрос.
type AffiliateUseCase struct {
	builder   *affiliate.Builder
	statsRepo LinkStatsRepository
	publisher EventPublisher
	logger    logger.Logger
	metrics   Metrics
	now       func() time.Time
}

func NewAffiliateUC(
	builder *affiliate.Builder,
	statsRepo LinkStatsRepository,
	publisher EventPublisher,
	logger logger.Logger,
	metrics Metrics,
) *AffiliateUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &AffiliateUseCase{
		builder:   builder,
		statsRepo: statsRepo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// BuildLink строит ссылку без сетевых вызовов.
func (a *AffiliateUseCase) BuildLink(req BuildLinkReq) (*domain.AffiliateLink, error) {
	const op = "AffiliateUseCase.BuildLink"

	if strings.TrimSpace(req.ProductID) == "" {
		return nil, e.Wrap(op, e.ErrProductIDRequired)
	}

	link := a.builder.Build(req.UserID, req.ProductID, affiliate.Options{
		CampaignID: req.CampaignID,
		SubID:      req.SubID,
	})

	return &link, nil
}

// BuildBulk строит ссылки для набора товаров. Ошибка одного элемента не прерывает остальные.
func (a *AffiliateUseCase) BuildBulk(userID string, items []BulkLinkItem, campaignID, subID string) *BulkLinksRes {
	res := &BulkLinksRes{
		TotalProcessed: len(items),
		Results:        make([]BulkLinkResult, 0, len(items)),
	}

	for _, item := range items {
		itemSubID := item.SubID
		if itemSubID == "" {
			itemSubID = subID
		}

		link, err := a.BuildLink(BuildLinkReq{
			UserID:     userID,
			ProductID:  item.ProductID,
			CampaignID: campaignID,
			SubID:      itemSubID,
		})
		if err != nil {
			res.ErrorCount++
			res.Results = append(res.Results, BulkLinkResult{ProductID: item.ProductID, Err: err})
			continue
		}

		res.SuccessCount++
		res.Results = append(res.Results, BulkLinkResult{ProductID: item.ProductID, Link: link})
	}

	return res
}

// TrackClick фиксирует клик. Всегда подтверждает приём.
func (a *AffiliateUseCase) TrackClick(ctx context.Context, linkID, userID string) error {
	const op = "AffiliateUseCase.TrackClick"

	event := &domain.TrackingEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventClick,
		LinkID:     linkID,
		UserID:     userID,
		OccurredAt: a.now().UTC(),
	}

	a.track(ctx, op, trackingKindClick, event, func(ctx context.Context) error {
		return a.statsRepo.RecordClick(ctx, linkID, event.OccurredAt)
	})

	return nil
}

// RecordConversion фиксирует конверсию. Отрицательная сумма заказа отклоняется до любых побочных эффектов.
func (a *AffiliateUseCase) RecordConversion(ctx context.Context, linkID, orderID string, orderValue decimal.Decimal) error {
	const op = "AffiliateUseCase.RecordConversion"

	if orderValue.IsNegative() {
		return e.Wrap(op, e.ErrInvalidConversionValue)
	}

	event := &domain.TrackingEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventConversion,
		LinkID:     linkID,
		OrderID:    orderID,
		OrderValue: orderValue,
		OccurredAt: a.now().UTC(),
	}

	a.track(ctx, op, trackingKindConversion, event, func(ctx context.Context) error {
		return a.statsRepo.RecordConversion(ctx, event)
	})

	return nil
}

// Stats возвращает сводку по ссылке.
func (a *AffiliateUseCase) Stats(ctx context.Context, linkID string) (*domain.LinkStats, error) {
	const op = "AffiliateUseCase.Stats"

	stats, err := a.statsRepo.Stats(ctx, linkID)
	if err != nil {
		return nil, e.Wrap(op, unavailable(err))
	}

	return stats, nil
}

// track сохраняет счётчик и публикует событие. Ошибки только логируются.
// Запросу отводится собственный таймаут, отмена клиента не прерывает запись.
func (a *AffiliateUseCase) track(ctx context.Context, op, kind string, event *domain.TrackingEvent, persist func(ctx context.Context) error) {
	trackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), trackingTimeout)
	defer cancel()

	if err := persist(trackCtx); err != nil {
		a.metrics.TrackingFailure(kind + "_store")
		a.logger.Warnf("failed to persist %s for link %s: %v", kind, event.LinkID, e.Wrap(op, err))
	}

	if err := a.publisher.Publish(trackCtx, event); err != nil {
		a.metrics.TrackingFailure(kind + "_publish")
		a.logger.Warnf("failed to publish %s event %s: %v", kind, event.EventID, e.Wrap(op, err))
	}
}
