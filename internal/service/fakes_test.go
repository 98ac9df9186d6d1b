package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository/postgres"
)

type fakeUserRepo struct {
	byEmail    map[string]*model.User
	byUsername map[string]*model.User
	byID       map[uuid.UUID]*model.User

	lookups     []string
	emailErr    error
	usernameErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
		byID:       make(map[uuid.UUID]*model.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	r.byID[user.ID] = &user
	r.byEmail[user.Email] = &user
	r.byUsername[user.Username] = &user
	return &user, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.lookups = append(r.lookups, "id")
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.lookups = append(r.lookups, "email")
	if r.emailErr != nil {
		return nil, r.emailErr
	}
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.lookups = append(r.lookups, "username")
	if r.usernameErr != nil {
		return nil, r.usernameErr
	}
	if user, ok := r.byUsername[username]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) FindByEmailOrUsername(ctx context.Context, email string, username string) (*model.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	if user, ok := r.byUsername[username]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.User, error) {
	var users []*model.User
	for _, user := range r.byUsername {
		users = append(users, user)
	}
	return users, nil
}

type fakeSupportRepo struct {
	rows []*model.SupportRow
	err  error
}

func (r *fakeSupportRepo) FindBySupporter(ctx context.Context, supporterID uuid.UUID) ([]*model.SupportRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	var rows []*model.SupportRow
	for _, row := range r.rows {
		if row.SupporterID == supporterID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeSupportRepo) FindPair(ctx context.Context, supporterID uuid.UUID, creatorID uuid.UUID, limit int) ([]*model.SupportRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	var rows []*model.SupportRow
	for _, row := range r.rows {
		if row.SupporterID == supporterID && row.CreatorID == creatorID {
			rows = append(rows, row)
		}
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func testRepository(users postgres.User, supports postgres.Support) *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PostgresRepository{User: users, Support: supports},
	}
}

type fakeFeed struct {
	subscribed []string
	stopped    int
	events     chan model.SupportEvent
}

func (f *fakeFeed) Subscribe(supporterID string, creatorID string) (<-chan model.SupportEvent, func(), error) {
	f.subscribed = append(f.subscribed, creatorID)
	f.events = make(chan model.SupportEvent)
	return f.events, func() { f.stopped++ }, nil
}
