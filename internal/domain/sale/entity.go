package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("a venda deve conter ao menos um item")
	ErrInvalidQuantity      = errors.New("quantidade do item deve ser maior que zero")
	ErrNegativePrice        = errors.New("preço do item não pode ser negativo")
	ErrNegativeDiscount     = errors.New("valor de desconto não pode ser negativo")
	ErrDiscountExceedsTotal = errors.New("desconto não pode exceder o subtotal")
	ErrDiscountMismatch     = errors.New("soma dos descontos aplicados difere do desconto total")
)

// CartItem representa um item do carrinho enviado pelo caixa.
// Imutável depois de submetido; os complementos (addons) mapeiam
// nome do complemento para quantidade
type CartItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	Addons    map[string]int  `json:"addons"`
}

// SaleItem representa um item persistido de uma venda
type SaleItem struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	Addons    map[string]int  `json:"addons"`
}

// DiscountApplication registra quanto um desconto contribuiu em uma venda
type DiscountApplication struct {
	DiscountID   string          `json:"discount_id"`
	DiscountName string          `json:"discount_name"`
	Amount       decimal.Decimal `json:"amount"`
}

// Sale representa uma venda concluída. Criada uma única vez por transação
// bem-sucedida e nunca alterada depois
type Sale struct {
	ID             string                `json:"id"`
	OrderType      string                `json:"order_type"`
	PaymentMethod  string                `json:"payment_method"`
	CashierName    string                `json:"cashier_name"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Items          []SaleItem            `json:"items"`
	Discounts      []DiscountApplication `json:"discounts"`
	CreatedAt      time.Time             `json:"created_at"`
}

// NewSale cria uma nova venda a partir do carrinho e dos valores calculados
// pelo motor de preços. Valida os invariantes da venda: carrinho não vazio,
// quantidades positivas (itens e complementos), preços não negativos,
// desconto dentro do subtotal e consistente com a soma das aplicações
func NewSale(
	orderType, paymentMethod, cashierName string,
	items []CartItem,
	subtotal, discountAmount decimal.Decimal,
	discounts []DiscountApplication,
) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
		for _, addonQuantity := range item.Addons {
			if addonQuantity <= 0 {
				return nil, ErrInvalidQuantity
			}
		}
	}

	if discountAmount.IsNegative() {
		return nil, ErrNegativeDiscount
	}
	if discountAmount.GreaterThan(subtotal) {
		return nil, ErrDiscountExceedsTotal
	}

	appliedTotal := decimal.Zero
	for _, d := range discounts {
		appliedTotal = appliedTotal.Add(d.Amount)
	}
	if !appliedTotal.Equal(discountAmount) {
		return nil, ErrDiscountMismatch
	}

	saleID := uuid.New().String()

	saleItems := make([]SaleItem, 0, len(items))
	for _, item := range items {
		saleItems = append(saleItems, SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Category:  item.Category,
			Addons:    item.Addons,
		})
	}

	return &Sale{
		ID:             saleID,
		OrderType:      orderType,
		PaymentMethod:  paymentMethod,
		CashierName:    cashierName,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    subtotal.Sub(discountAmount),
		Items:          saleItems,
		Discounts:      discounts,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
