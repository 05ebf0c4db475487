package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// DefaultAddonPrices retorna a tabela padrão de preços dos complementos
func DefaultAddonPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"espressoShots": decimal.RequireFromString("25.00"),
		"seaSaltCream":  decimal.RequireFromString("30.00"),
		"syrupSauces":   decimal.RequireFromString("20.00"),
	}
}

// AddonPricesFromEnv carrega a tabela de preços dos complementos a partir da
// variável de ambiente ADDON_PRICES (JSON mapeando nome para preço). Quando a
// variável não está definida, usa a tabela padrão
func AddonPricesFromEnv() (map[string]decimal.Decimal, error) {
	raw := os.Getenv("ADDON_PRICES")
	if raw == "" {
		return DefaultAddonPrices(), nil
	}

	var prices map[string]string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil {
		return nil, fmt.Errorf("erro ao decodificar ADDON_PRICES: %w", err)
	}

	table := make(map[string]decimal.Decimal, len(prices))
	for name, value := range prices {
		price, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("preço inválido para o complemento %s: %w", name, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("preço do complemento %s não pode ser negativo", name)
		}
		table[name] = price
	}

	return table, nil
}
