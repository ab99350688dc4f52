package pgdb

import (
	"context"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// LinkStatsRepo хранит дневные счётчики кликов и конверсий по партнёрским ссылкам.
type LinkStatsRepo struct {
	pool *pgxpool.Pool
	conv converter.LinkStatsConverter
}

func NewLinkStatsRepo(pool *pgxpool.Pool, conv converter.LinkStatsConverter) *LinkStatsRepo {
	return &LinkStatsRepo{pool: pool, conv: conv}
}

// RecordClick увеличивает счётчик кликов за день события.
func (l *LinkStatsRepo) RecordClick(ctx context.Context, linkID string, at time.Time) error {
	query := `
		INSERT INTO link_daily_stats (link_id, day, clicks)
		VALUES ($1, $2::date, 1)
		ON CONFLICT (link_id, day)
		DO UPDATE SET clicks = link_daily_stats.clicks + 1;
	`

	if _, err := l.pool.Exec(ctx, query, linkID, at.UTC()); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// RecordConversion сохраняет конверсию и обновляет дневную выручку в одной транзакции.
// Повторная конверсия с тем же номером заказа не учитывается.
func (l *LinkStatsRepo) RecordConversion(ctx context.Context, event *domain.TrackingEvent) (err error) {
	const op = "LinkStatsRepo.RecordConversion"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, l.pool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = e.Wrap(op, rbErr)
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction().(pgx.Tx))

	inserted, err := l.insertConversion(ctx, event)
	if err != nil {
		return e.Wrap(op, err)
	}

	if inserted {
		if err = l.addDailyConversion(ctx, event); err != nil {
			return e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Stats возвращает сводку по ссылке с разбивкой по дням. Неизвестная ссылка даёт нулевые счётчики.
func (l *LinkStatsRepo) Stats(ctx context.Context, linkID string) (*domain.LinkStats, error) {
	query := `
		SELECT link_id, day, clicks, conversions, revenue
		FROM link_daily_stats
		WHERE link_id = $1
		ORDER BY day;
	`

	rows, err := l.pool.Query(ctx, query, linkID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.LinkDailyStatsModel, 0)
	for rows.Next() {
		var m converter.LinkDailyStatsModel
		if err := rows.Scan(&m.LinkID, &m.Day, &m.Clicks, &m.Conversions, &m.Revenue); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(linkID, models), nil
}

func (l *LinkStatsRepo) insertConversion(ctx context.Context, event *domain.TrackingEvent) (bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO conversions (order_id, link_id, order_value, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING;
	`

	// Конверсия без номера заказа не дедуплицируется
	orderID := event.OrderID
	if orderID == "" {
		orderID = event.EventID
	}

	tag, err := tx.Exec(ctx, query, orderID, event.LinkID, event.OrderValue, event.OccurredAt)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected() == 1, nil
}

func (l *LinkStatsRepo) addDailyConversion(ctx context.Context, event *domain.TrackingEvent) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO link_daily_stats (link_id, day, conversions, revenue)
		VALUES ($1, $2::date, 1, $3)
		ON CONFLICT (link_id, day)
		DO UPDATE SET
			conversions = link_daily_stats.conversions + 1,
			revenue = link_daily_stats.revenue + EXCLUDED.revenue;
	`

	if _, err := tx.Exec(ctx, query, event.LinkID, event.OccurredAt.UTC(), event.OrderValue); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
