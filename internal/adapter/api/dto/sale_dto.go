package dto

import (
	"time"

	"github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// CartItemRequest representa um item do carrinho na requisição de venda
type CartItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Addons   map[string]int  `json:"addons"`
}

// SaleRequest representa a requisição de criação de venda
type SaleRequest struct {
	CartItems        []CartItemRequest `json:"cartItems" binding:"required,min=1,dive"`
	OrderType        string            `json:"orderType" binding:"required"`
	PaymentMethod    string            `json:"paymentMethod" binding:"required"`
	AppliedDiscounts []string          `json:"appliedDiscounts"`
}

// ToCartItems converte a requisição para itens de carrinho do domínio
func (r *SaleRequest) ToCartItems() []sale.CartItem {
	items := make([]sale.CartItem, 0, len(r.CartItems))
	for _, item := range r.CartItems {
		items = append(items, sale.CartItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Category:  item.Category,
			Addons:    item.Addons,
		})
	}
	return items
}

// SaleReceiptResponse representa o recibo retornado ao caixa após a venda.
// Os valores são apresentados com duas casas decimais apenas na borda
type SaleReceiptResponse struct {
	SaleID         string `json:"saleId"`
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discountAmount"`
	FinalTotal     string `json:"finalTotal"`
}

// ToSaleReceiptResponse converte uma venda para o recibo da API
func ToSaleReceiptResponse(s *sale.Sale) SaleReceiptResponse {
	return SaleReceiptResponse{
		SaleID:         s.ID,
		Subtotal:       s.Subtotal.StringFixed(2),
		DiscountAmount: s.DiscountAmount.StringFixed(2),
		FinalTotal:     s.TotalAmount.StringFixed(2),
	}
}

// SaleItemResponse representa um item de venda na resposta da API
type SaleItemResponse struct {
	Name      string         `json:"name"`
	Quantity  int            `json:"quantity"`
	UnitPrice string         `json:"unitPrice"`
	Category  string         `json:"category"`
	Addons    map[string]int `json:"addons,omitempty"`
}

// AppliedDiscountResponse representa um desconto aplicado na resposta da API
type AppliedDiscountResponse struct {
	DiscountID   string `json:"discountId"`
	DiscountName string `json:"discountName"`
	Amount       string `json:"amount"`
}

// SaleResponse representa os dados completos de uma venda
type SaleResponse struct {
	ID             string                    `json:"id"`
	OrderType      string                    `json:"orderType"`
	PaymentMethod  string                    `json:"paymentMethod"`
	CashierName    string                    `json:"cashierName"`
	Subtotal       string                    `json:"subtotal"`
	DiscountAmount string                    `json:"discountAmount"`
	TotalAmount    string                    `json:"totalAmount"`
	Items          []SaleItemResponse        `json:"items"`
	Discounts      []AppliedDiscountResponse `json:"discounts"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// ToSaleResponse converte uma venda do domínio para a resposta da API
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Category:  item.Category,
			Addons:    item.Addons,
		})
	}

	discounts := make([]AppliedDiscountResponse, 0, len(s.Discounts))
	for _, d := range s.Discounts {
		discounts = append(discounts, AppliedDiscountResponse{
			DiscountID:   d.DiscountID,
			DiscountName: d.DiscountName,
			Amount:       d.Amount.StringFixed(2),
		})
	}

	return SaleResponse{
		ID:             s.ID,
		OrderType:      s.OrderType,
		PaymentMethod:  s.PaymentMethod,
		CashierName:    s.CashierName,
		Subtotal:       s.Subtotal.StringFixed(2),
		DiscountAmount: s.DiscountAmount.StringFixed(2),
		TotalAmount:    s.TotalAmount.StringFixed(2),
		Items:          items,
		Discounts:      discounts,
		CreatedAt:      s.CreatedAt,
	}
}

// SaleListResponse representa a lista paginada de vendas
type SaleListResponse struct {
	Sales      []SaleResponse `json:"sales"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ToSaleListResponse converte uma lista de vendas para a resposta paginada
func ToSaleListResponse(sales []*sale.Sale, totalCount, page, pageSize int) SaleListResponse {
	responses := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		responses = append(responses, ToSaleResponse(s))
	}

	return SaleListResponse{
		Sales:      responses,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}
}

// DailyReportResponse representa o consolidado diário de vendas
type DailyReportResponse struct {
	Date           string `json:"date"`
	SaleCount      int    `json:"saleCount"`
	GrossAmount    string `json:"grossAmount"`
	DiscountAmount string `json:"discountAmount"`
	NetAmount      string `json:"netAmount"`
}

// ToDailyReportResponse converte o consolidado diário para a resposta da API
func ToDailyReportResponse(summary *sale.DailySummary) DailyReportResponse {
	return DailyReportResponse{
		Date:           summary.Date,
		SaleCount:      summary.SaleCount,
		GrossAmount:    summary.GrossAmount.StringFixed(2),
		DiscountAmount: summary.DiscountAmount.StringFixed(2),
		NetAmount:      summary.NetAmount.StringFixed(2),
	}
}
