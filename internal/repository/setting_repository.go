package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// SettingRepository manages persisted key/value settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Upsert(ctx context.Context, setting *domain.Setting) error
	List(ctx context.Context) ([]domain.Setting, error)
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository builds the repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	const query = `
        SELECT key, value, updated_by, updated_at
        FROM settings WHERE key=$1`
	var setting domain.Setting
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.UpdatedBy,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	const query = `
        INSERT INTO settings (key, value, updated_by)
        VALUES ($1,$2,$3)
        ON CONFLICT (key) DO UPDATE SET
            value=EXCLUDED.value, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, setting.Key, setting.Value, setting.UpdatedBy).Scan(&setting.UpdatedAt)
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	const query = `
        SELECT key, value, updated_by, updated_at
        FROM settings ORDER BY key ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Setting
	for rows.Next() {
		var setting domain.Setting
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}
