package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
)

const MAX_LIMIT = 50

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

const userColumns = "u.id, u.email, u.username, u.password_hash, u.display_name, u.avatar_url, u.bio, u.created_at, u.updated_at"

func scanUser(row interface{ Scan(dest ...interface{}) error }, user *model.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, email, username, password_hash, display_name, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7)",
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.DisplayName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return &user, err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1", email), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.username = $1", username), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByEmailOrUsername(ctx context.Context, email string, username string) (*model.User, error) {
	var user model.User
	if err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1 OR u.username = $2", email, username), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.User, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+userColumns+" FROM users u WHERE u.username ILIKE '%' || $1 || '%' LIMIT $2 OFFSET $3",
		username,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}

		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func maximumLimit(l *int) {
	if *l > MAX_LIMIT {
		*l = MAX_LIMIT
	}
}
