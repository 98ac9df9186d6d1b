package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
)

type supportRepo struct {
	db *pgxpool.Pool
}

func newSupportRepo(db *pgxpool.Pool) Support {
	return &supportRepo{
		db: db,
	}
}

const supportColumns = "s.id, s.supporter_id, s.creator_id, s.supporter_name, s.creator_name, s.tier, s.following, s.created_at"

func (r *supportRepo) FindBySupporter(ctx context.Context, supporterID uuid.UUID) ([]*model.SupportRow, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT "+supportColumns+" FROM supports s WHERE s.supporter_id = $1 ORDER BY s.created_at DESC",
		supporterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSupportRows(rows)
}

func (r *supportRepo) FindPair(ctx context.Context, supporterID uuid.UUID, creatorID uuid.UUID, limit int) ([]*model.SupportRow, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+supportColumns+" FROM supports s WHERE s.supporter_id = $1 AND s.creator_id = $2 ORDER BY s.created_at DESC LIMIT $3",
		supporterID,
		creatorID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSupportRows(rows)
}

func collectSupportRows(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]*model.SupportRow, error) {
	var supports []*model.SupportRow
	for rows.Next() {
		var (
			support model.SupportRow
			tier    *string
		)
		if err := rows.Scan(
			&support.ID,
			&support.SupporterID,
			&support.CreatorID,
			&support.SupporterName,
			&support.CreatorName,
			&tier,
			&support.Following,
			&support.CreatedAt,
		); err != nil {
			return nil, err
		}

		if tier != nil {
			t := model.Tier(*tier)
			support.Tier = &t
		}

		supports = append(supports, &support)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return supports, nil
}
