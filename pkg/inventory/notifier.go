package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
)

// Notifier notifica o serviço de produtos para deduzir o estoque dos itens
// vendidos. A chamada é melhor esforço: acontece depois do commit da venda e
// a falha nunca é propagada ao caixa
type Notifier interface {
	NotifyDeduction(ctx context.Context, items []sale.CartItem, token string) error
}

type deductionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type deductionRequest struct {
	CartItems []deductionItem `json:"cartItems"`
}

// HTTPNotifier envia a dedução de estoque para o serviço de produtos via HTTP
type HTTPNotifier struct {
	client  *http.Client
	baseURL string
}

// NewHTTPNotifier cria um novo notificador apontando para o serviço de
// produtos. O timeout garante espera limitada mesmo com o serviço lento
func NewHTTPNotifier(baseURL string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// NotifyDeduction implementa Notifier enviando nomes e quantidades vendidas
func (n *HTTPNotifier) NotifyDeduction(ctx context.Context, items []sale.CartItem, token string) error {
	payload := deductionRequest{
		CartItems: make([]deductionItem, 0, len(items)),
	}
	for _, item := range items {
		payload.CartItems = append(payload.CartItems, deductionItem{
			Name:     item.Name,
			Quantity: item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar dedução de estoque: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/products/deduct", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição de dedução: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao chamar serviço de produtos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("serviço de produtos recusou a dedução: status %d", resp.StatusCode)
	}

	return nil
}
