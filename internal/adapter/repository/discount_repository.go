package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/pos-cafeteria/internal/domain/discount"
	"github.com/hugohenrick/pos-cafeteria/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Erros específicos do repositório
var (
	ErrDiscountNotFound      = errors.New("desconto não encontrado")
	ErrDiscountDatabaseError = errors.New("erro de banco de dados")
)

// DiscountRepository implementa a interface discount.Repository
type DiscountRepository struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewDiscountRepository cria uma nova instância de DiscountRepository
func NewDiscountRepository(db *pgxpool.Pool, logger logger.Logger) discount.Repository {
	return &DiscountRepository{
		db:     db,
		logger: logger,
	}
}

// ResolveActive implementa discount.Repository.ResolveActive
func (r *DiscountRepository) ResolveActive(ctx context.Context, names []string, asOf time.Time) ([]discount.Discount, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT
			id, name, description, discount_type, percentage_value, fixed_value,
			minimum_spend, valid_from, valid_to, status, created_by, created_at
		FROM discounts
		WHERE name = ANY($1)
			AND status = 'Active'
			AND valid_from <= $2
			AND valid_to > $2`,
		names, asOf)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar descontos: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]discount.Discount)
	for rows.Next() {
		var d discount.Discount
		var description *string
		var percentageValue, fixedValue decimal.NullDecimal

		if err := rows.Scan(
			&d.ID, &d.Name, &description, &d.Type, &percentageValue, &fixedValue,
			&d.MinimumSpend, &d.ValidFrom, &d.ValidTo, &d.Status, &d.CreatedBy,
			&d.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler desconto: %w", err)
		}

		if description != nil {
			d.Description = *description
		}
		if percentageValue.Valid {
			d.PercentageValue = percentageValue.Decimal
		}
		if fixedValue.Valid {
			d.FixedValue = fixedValue.Decimal
		}

		byName[d.Name] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer descontos: %w", err)
	}

	// Preservar a ordem solicitada; nomes não resolvidos são omitidos
	// silenciosamente
	resolved := make([]discount.Discount, 0, len(names))
	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			r.logger.Debug("desconto solicitado não resolvido", "name", name)
			continue
		}
		resolved = append(resolved, d)
	}

	return resolved, nil
}
