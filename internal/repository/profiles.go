package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/entity"
)

type ProfileRepository interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) (*entity.Profile, error)
}

type profileRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfileRepository(pool *pgxpool.Pool, logger *slog.Logger) ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileRepository{pool: pool, logger: logger}
}

func (r *profileRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, business_name, address, phone, email, default_currency,
		       created_at, updated_at
		FROM profiles WHERE owner_id = $1`,
		ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.BusinessName, &p.Address, &p.Phone, &p.Email,
		&p.DefaultCurrency, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get profile", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	out := &entity.Profile{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, owner_id, business_name, address, phone, email, default_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			default_currency = EXCLUDED.default_currency,
			updated_at = now()
		RETURNING id, owner_id, business_name, address, phone, email, default_currency,
		          created_at, updated_at`,
		uuid.New(), p.OwnerID, p.BusinessName, p.Address, p.Phone, p.Email, p.DefaultCurrency,
	).Scan(&out.ID, &out.OwnerID, &out.BusinessName, &out.Address, &out.Phone, &out.Email,
		&out.DefaultCurrency, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to upsert profile", "owner_id", p.OwnerID, "error", err)
		return nil, err
	}
	return out, nil
}
