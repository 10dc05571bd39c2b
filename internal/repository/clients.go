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

type ClientRepository interface {
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Client, error)
	UpsertByName(ctx context.Context, ownerID uuid.UUID, c *entity.Client) (*entity.Client, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Client, error)
}

type clientRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewClientRepository(pool *pgxpool.Pool, logger *slog.Logger) ClientRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &clientRepository{pool: pool, logger: logger}
}

func (r *clientRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Client, error) {
	c := &entity.Client{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, address, phone, email, created_at, updated_at
		FROM clients WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get client", "client_id", id, "error", err)
		return nil, err
	}
	return c, nil
}

// UpsertByName creates the client or refreshes its contact details, keyed by
// (owner, name). Extraction repeatedly re-discovers the same client; this
// keeps one row per name.
func (r *clientRepository) UpsertByName(ctx context.Context, ownerID uuid.UUID, c *entity.Client) (*entity.Client, error) {
	out := &entity.Client{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, owner_id, name, address, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, name) DO UPDATE SET
			address = COALESCE(NULLIF(EXCLUDED.address, ''), clients.address),
			phone   = COALESCE(NULLIF(EXCLUDED.phone, ''), clients.phone),
			email   = COALESCE(NULLIF(EXCLUDED.email, ''), clients.email),
			updated_at = now()
		RETURNING id, owner_id, name, address, phone, email, created_at, updated_at`,
		uuid.New(), ownerID, c.Name, c.Address, c.Phone, c.Email,
	).Scan(&out.ID, &out.OwnerID, &out.Name, &out.Address, &out.Phone, &out.Email,
		&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to upsert client", "owner_id", ownerID, "name", c.Name, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *clientRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, address, phone, email, created_at, updated_at
		FROM clients WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		r.logger.Error("failed to list clients", "owner_id", ownerID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		c := &entity.Client{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Email,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
