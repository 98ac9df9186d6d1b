package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
)

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmailOrUsername(ctx context.Context, email string, username string) (*model.User, error)
	SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.User, error)
}

type Support interface {
	FindBySupporter(ctx context.Context, supporterID uuid.UUID) ([]*model.SupportRow, error)
	FindPair(ctx context.Context, supporterID uuid.UUID, creatorID uuid.UUID, limit int) ([]*model.SupportRow, error)
}

type PostgresRepository struct {
	User
	Support
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		User:    newUserRepo(db),
		Support: newSupportRepo(db),
	}
}
