package pricing

import (
	"github.com/hugohenrick/pos-cafeteria/internal/domain/discount"
	"github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// AppliedDiscount representa a contribuição de um desconto no total calculado
type AppliedDiscount struct {
	DiscountID   string
	DiscountName string
	Amount       decimal.Decimal
}

// Totals é o resultado do cálculo de uma venda
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Applied       []AppliedDiscount
}

// FinalTotal retorna o valor a pagar: subtotal menos o desconto total
func (t Totals) FinalTotal() decimal.Decimal {
	return t.Subtotal.Sub(t.DiscountTotal)
}

// Engine calcula subtotal e descontos de uma venda no servidor.
// Todo o cálculo monetário usa decimal exato; o arredondamento para
// apresentação acontece apenas na borda da API
type Engine struct {
	addonPrices map[string]decimal.Decimal
}

// NewEngine cria um novo motor de preços com a tabela de preços de
// complementos informada
func NewEngine(addonPrices map[string]decimal.Decimal) *Engine {
	if addonPrices == nil {
		addonPrices = map[string]decimal.Decimal{}
	}
	return &Engine{addonPrices: addonPrices}
}

// ComputeTotals calcula o subtotal do carrinho e o valor de cada desconto
// resolvido. Função pura: sem efeitos colaterais e determinística.
//
// Regras:
//   - subtotal = soma de (preço unitário + complementos) * quantidade;
//     complementos desconhecidos contribuem zero
//   - descontos com gasto mínimo acima do subtotal são ignorados
//   - o mesmo desconto informado mais de uma vez contribui uma vez por
//     ocorrência, mas o detalhamento agrega as contribuições em uma única
//     entrada por desconto
//   - o desconto total nunca excede o subtotal; o excedente é descartado
//     truncando as últimas contribuições, sem redistribuição
func (e *Engine) ComputeTotals(items []sale.CartItem, discounts []discount.Discount) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		addonsPrice := decimal.Zero
		for addonName, quantity := range item.Addons {
			price, ok := e.addonPrices[addonName]
			if !ok {
				continue
			}
			addonsPrice = addonsPrice.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
		}
		subtotal = subtotal.Add(item.UnitPrice.Add(addonsPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discountTotal := decimal.Zero
	remaining := subtotal
	applied := make([]AppliedDiscount, 0, len(discounts))
	appliedIndex := make(map[string]int, len(discounts))

	for _, d := range discounts {
		if subtotal.LessThan(d.MinimumSpend) {
			continue
		}

		var amount decimal.Decimal
		switch d.Type {
		case discount.TypePercentage:
			amount = subtotal.Mul(d.PercentageValue).Div(decimal.NewFromInt(100))
		case discount.TypeFixed:
			amount = d.FixedValue
		default:
			continue
		}

		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if !amount.IsPositive() {
			continue
		}

		if idx, ok := appliedIndex[d.ID]; ok {
			applied[idx].Amount = applied[idx].Amount.Add(amount)
		} else {
			appliedIndex[d.ID] = len(applied)
			applied = append(applied, AppliedDiscount{
				DiscountID:   d.ID,
				DiscountName: d.Name,
				Amount:       amount,
			})
		}
		discountTotal = discountTotal.Add(amount)
		remaining = remaining.Sub(amount)
	}

	return Totals{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		Applied:       applied,
	}
}
