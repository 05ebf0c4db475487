package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary representa o consolidado de vendas de um dia
type DailySummary struct {
	Date           string          `json:"date"`
	SaleCount      int             `json:"sale_count"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
}

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create persiste a venda, seus itens e os descontos aplicados em uma
	// única transação. Ou tudo é gravado, ou nada é
	Create(ctx context.Context, s *Sale) error

	// FindByID busca uma venda pelo ID, incluindo itens e descontos
	FindByID(ctx context.Context, id string) (*Sale, error)

	// List lista as vendas mais recentes com paginação e retorna o total
	List(ctx context.Context, limit, offset int) ([]*Sale, int, error)

	// DailySummary consolida as vendas do dia informado (UTC)
	DailySummary(ctx context.Context, day time.Time) (*DailySummary, error)
}
