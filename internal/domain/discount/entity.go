package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type representa o tipo de desconto
type Type string

const (
	TypePercentage Type = "Percentage" // Percentual sobre o subtotal
	TypeFixed      Type = "Fixed"      // Valor fixo
)

// Status representa o status do desconto
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Discount representa uma regra de desconto cadastrada
//
// O cadastro (criação/edição) é feito pelo serviço de descontos; aqui o
// desconto é somente leitura.
type Discount struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Type            Type            `json:"type"`
	PercentageValue decimal.Decimal `json:"percentage_value"`
	FixedValue      decimal.Decimal `json:"fixed_value"`
	MinimumSpend    decimal.Decimal `json:"minimum_spend"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidTo         time.Time       `json:"valid_to"`
	Status          Status          `json:"status"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ValidAt verifica se o desconto está ativo e dentro da janela de validade
// no instante informado. A janela é fechada no início e aberta no fim:
// [ValidFrom, ValidTo)
func (d *Discount) ValidAt(t time.Time) bool {
	if d.Status != StatusActive {
		return false
	}
	return !t.Before(d.ValidFrom) && t.Before(d.ValidTo)
}
