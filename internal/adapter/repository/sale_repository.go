package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrSaleNotFound      = errors.New("venda não encontrada")
	ErrSaleDatabaseError = errors.New("erro de banco de dados")
)

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

// Create implementa sale.Repository.Create. O cabeçalho da venda, os itens e
// os descontos aplicados são gravados em uma única transação: qualquer falha
// desfaz tudo e nenhuma venda parcial fica visível. A conexão é adquirida do
// pool no início da transação e liberada em todos os caminhos de saída
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sales (
			id, order_type, payment_method, cashier_name,
			subtotal_amount, discount_amount, total_amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.OrderType, s.PaymentMethod, s.CashierName,
		s.Subtotal, s.DiscountAmount, s.TotalAmount, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar venda: %w", err)
	}

	for _, item := range s.Items {
		addons, err := json.Marshal(item.Addons)
		if err != nil {
			return fmt.Errorf("erro ao converter complementos para JSON: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO sale_items (
				id, sale_id, name, quantity, unit_price, category, addons
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, s.ID, item.Name, item.Quantity, item.UnitPrice,
			item.Category, addons)
		if err != nil {
			return fmt.Errorf("erro ao criar item da venda: %w", err)
		}
	}

	for _, d := range s.Discounts {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_discounts (
				sale_id, discount_id, applied_amount
			) VALUES ($1, $2, $3)`,
			s.ID, d.DiscountID, d.Amount)
		if err != nil {
			return fmt.Errorf("erro ao registrar desconto da venda: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit da venda: %w", err)
	}

	return nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	var s sale.Sale

	err := r.db.QueryRow(ctx,
		`SELECT
			id, order_type, payment_method, cashier_name,
			subtotal_amount, discount_amount, total_amount, created_at
		FROM sales WHERE id = $1`,
		id).Scan(
		&s.ID, &s.OrderType, &s.PaymentMethod, &s.CashierName,
		&s.Subtotal, &s.DiscountAmount, &s.TotalAmount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	if err := r.loadItems(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadDiscounts(ctx, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*sale.Sale, int, error) {
	var totalCount int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar vendas: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT
			id, order_type, payment_method, cashier_name,
			subtotal_amount, discount_amount, total_amount, created_at
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	sales := make([]*sale.Sale, 0, limit)
	for rows.Next() {
		var s sale.Sale
		if err := rows.Scan(
			&s.ID, &s.OrderType, &s.PaymentMethod, &s.CashierName,
			&s.Subtotal, &s.DiscountAmount, &s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("erro ao ler venda: %w", err)
		}
		sales = append(sales, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro ao percorrer vendas: %w", err)
	}

	for _, s := range sales {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, 0, err
		}
		if err := r.loadDiscounts(ctx, s); err != nil {
			return nil, 0, err
		}
	}

	return sales, totalCount, nil
}

// DailySummary implementa sale.Repository.DailySummary
func (r *SaleRepository) DailySummary(ctx context.Context, day time.Time) (*sale.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var summary sale.DailySummary
	summary.Date = start.Format("2006-01-02")

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(subtotal_amount), 0),
			COALESCE(SUM(discount_amount), 0),
			COALESCE(SUM(total_amount), 0)
		FROM sales
		WHERE created_at >= $1 AND created_at < $2`,
		start, end).Scan(
		&summary.SaleCount, &summary.GrossAmount,
		&summary.DiscountAmount, &summary.NetAmount)
	if err != nil {
		return nil, fmt.Errorf("erro ao consolidar vendas do dia: %w", err)
	}

	return &summary, nil
}

// loadItems carrega os itens de uma venda
func (r *SaleRepository) loadItems(ctx context.Context, s *sale.Sale) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, name, quantity, unit_price, category, addons
		FROM sale_items WHERE sale_id = $1
		ORDER BY name`,
		s.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item sale.SaleItem
		var addonsJSON []byte

		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.Category, &addonsJSON); err != nil {
			return fmt.Errorf("erro ao ler item da venda: %w", err)
		}

		if len(addonsJSON) > 0 {
			if err := json.Unmarshal(addonsJSON, &item.Addons); err != nil {
				return fmt.Errorf("erro ao converter complementos: %w", err)
			}
		}

		s.Items = append(s.Items, item)
	}

	return rows.Err()
}

// loadDiscounts carrega os descontos aplicados em uma venda
func (r *SaleRepository) loadDiscounts(ctx context.Context, s *sale.Sale) error {
	rows, err := r.db.Query(ctx,
		`SELECT sd.discount_id, d.name, sd.applied_amount
		FROM sale_discounts sd
		JOIN discounts d ON d.id = sd.discount_id
		WHERE sd.sale_id = $1`,
		s.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar descontos da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d sale.DiscountApplication
		if err := rows.Scan(&d.DiscountID, &d.DiscountName, &d.Amount); err != nil {
			return fmt.Errorf("erro ao ler desconto da venda: %w", err)
		}
		s.Discounts = append(s.Discounts, d)
	}

	return rows.Err()
}
