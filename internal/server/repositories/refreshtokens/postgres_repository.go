package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {

	query :=
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {

	query :=
		`SELECT id, user_id, token, expires_at FROM refresh_tokens
		 WHERE token = $1
		 `

	rt := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.Expires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return rt, nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) error {

	query :=
		`DELETE FROM refresh_tokens WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}
