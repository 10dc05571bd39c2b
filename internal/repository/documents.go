package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/entity"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
)

// CreateDocumentRequest wraps parameters for persisting an extracted record
// as a quote or invoice.
type CreateDocumentRequest struct {
	OwnerID  uuid.UUID
	ClientID *uuid.UUID
	Type     constants.DocumentType
	Number   string
	Data     *extraction.DocumentData
}

// ListDocumentsFilter narrows a document listing. Zero values mean "any".
type ListDocumentsFilter struct {
	Type     constants.DocumentType
	Status   constants.DocumentStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
}

type DocumentRepository interface {
	CreateFromExtraction(ctx context.Context, req *CreateDocumentRequest) (*entity.Document, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Document, error)
	List(ctx context.Context, ownerID uuid.UUID, filter ListDocumentsFilter) ([]*entity.Document, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status constants.DocumentStatus) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type documentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{pool: pool, logger: logger}
}

func (r *documentRepository) CreateFromExtraction(ctx context.Context, req *CreateDocumentRequest) (*entity.Document, error) {
	d := req.Data
	if d == nil {
		return nil, common.NewAppError("DOCUMENT_CREATE", "no extraction data", common.ErrInvalidInput)
	}
	if !req.Type.Creatable() {
		return nil, common.NewAppError("DOCUMENT_CREATE", fmt.Sprintf("type %q is not creatable", req.Type), common.ErrInvalidInput)
	}

	var clientName string
	if d.Client != nil {
		clientName = d.Client.Name
	}
	issueDate := parseDate(d.Date)
	if issueDate == nil {
		now := time.Now().UTC()
		issueDate = &now
	}

	var total float64
	if d.Total != nil {
		total = *d.Total
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	doc := &entity.Document{
		ID:             uuid.New(),
		OwnerID:        req.OwnerID,
		ClientID:       req.ClientID,
		Type:           req.Type,
		Status:         constants.StatusDraft,
		Number:         req.Number,
		ClientName:     clientName,
		IssueDate:      *issueDate,
		DueDate:        parseDate(d.DueDate),
		ValidUntil:     parseDate(d.ValidUntil),
		CurrencyCode:   d.Currency,
		Subtotal:       d.Subtotal,
		TaxRate:        d.TaxRate,
		TaxAmount:      d.TaxAmount,
		DeliveryCharge: d.DeliveryCharge,
		Total:          total,
		Notes:          d.Notes,
		PaymentTerms:   d.PaymentTerms,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO documents
			(id, owner_id, client_id, type, status, number, client_name, issue_date,
			 due_date, valid_until, currency_code, subtotal, tax_rate, tax_amount,
			 delivery_charge, total, notes, payment_terms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING created_at, updated_at`,
		doc.ID, doc.OwnerID, doc.ClientID, doc.Type, doc.Status, doc.Number,
		doc.ClientName, doc.IssueDate, doc.DueDate, doc.ValidUntil, doc.CurrencyCode,
		doc.Subtotal, doc.TaxRate, doc.TaxAmount, doc.DeliveryCharge, doc.Total,
		doc.Notes, doc.PaymentTerms,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to insert document", "owner_id", req.OwnerID, "error", err)
		return nil, common.WrapError(err, "insert document")
	}

	for i, it := range d.Items {
		item := entity.DocumentItem{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			Position:    i,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO document_items
				(id, document_id, position, description, quantity, unit_price, amount)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			item.ID, item.DocumentID, item.Position, item.Description,
			item.Quantity, item.UnitPrice, item.Amount,
		)
		if err != nil {
			r.logger.Error("failed to insert document item", "document_id", doc.ID, "position", i, "error", err)
			return nil, common.WrapError(err, "insert document item")
		}
		doc.Items = append(doc.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Document, error) {
	doc := &entity.Document{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, client_id, type, status, number, client_name, issue_date,
		       due_date, valid_until, currency_code, subtotal, tax_rate, tax_amount,
		       delivery_charge, total, notes, payment_terms, created_at, updated_at
		FROM documents
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&doc.ID, &doc.OwnerID, &doc.ClientID, &doc.Type, &doc.Status, &doc.Number,
		&doc.ClientName, &doc.IssueDate, &doc.DueDate, &doc.ValidUntil, &doc.CurrencyCode,
		&doc.Subtotal, &doc.TaxRate, &doc.TaxAmount, &doc.DeliveryCharge, &doc.Total,
		&doc.Notes, &doc.PaymentTerms, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get document", "document_id", id, "error", err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, position, description, quantity, unit_price, amount
		FROM document_items
		WHERE document_id = $1
		ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, it)
	}
	return doc, rows.Err()
}

func (r *documentRepository) List(ctx context.Context, ownerID uuid.UUID, filter ListDocumentsFilter) ([]*entity.Document, error) {
	query := `
		SELECT id, owner_id, client_id, type, status, number, client_name, issue_date,
		       due_date, valid_until, currency_code, subtotal, tax_rate, tax_amount,
		       delivery_charge, total, notes, payment_terms, created_at, updated_at
		FROM documents
		WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += fmt.Sprintf(" AND issue_date >= $%d", len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += fmt.Sprintf(" AND issue_date <= $%d", len(args))
	}
	query += " ORDER BY issue_date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list documents", "owner_id", ownerID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc := &entity.Document{}
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.ClientID, &doc.Type, &doc.Status,
			&doc.Number, &doc.ClientName, &doc.IssueDate, &doc.DueDate, &doc.ValidUntil,
			&doc.CurrencyCode, &doc.Subtotal, &doc.TaxRate, &doc.TaxAmount,
			&doc.DeliveryCharge, &doc.Total, &doc.Notes, &doc.PaymentTerms,
			&doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status constants.DocumentStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents SET status = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3`,
		status, id, ownerID,
	)
	if err != nil {
		r.logger.Error("failed to update document status", "document_id", id, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM documents WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		r.logger.Error("failed to delete document", "document_id", id, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// parseDate accepts ISO dates; anything else is treated as absent. The
// extraction layer does not guarantee well-formed dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
