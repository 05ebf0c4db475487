package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/dto"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/repository"
	discountdomain "github.com/hugohenrick/pos-cafeteria/internal/domain/discount"
	"github.com/hugohenrick/pos-cafeteria/internal/domain/pricing"
	saledomain "github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
	"github.com/hugohenrick/pos-cafeteria/pkg/auth"
	"github.com/hugohenrick/pos-cafeteria/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaleRepo struct {
	created   *saledomain.Sale
	createErr error
	found     *saledomain.Sale
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *saledomain.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = s
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id string) (*saledomain.Sale, error) {
	if r.found == nil {
		return nil, repository.ErrSaleNotFound
	}
	return r.found, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, limit, offset int) ([]*saledomain.Sale, int, error) {
	if r.found == nil {
		return nil, 0, nil
	}
	return []*saledomain.Sale{r.found}, 1, nil
}

func (r *fakeSaleRepo) DailySummary(ctx context.Context, day time.Time) (*saledomain.DailySummary, error) {
	return &saledomain.DailySummary{
		Date:           day.Format("2006-01-02"),
		SaleCount:      0,
		GrossAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		NetAmount:      decimal.Zero,
	}, nil
}

type fakeDiscountRepo struct {
	discounts []discountdomain.Discount
}

func (r *fakeDiscountRepo) ResolveActive(ctx context.Context, names []string, asOf time.Time) ([]discountdomain.Discount, error) {
	resolved := make([]discountdomain.Discount, 0, len(names))
	for _, name := range names {
		for _, d := range r.discounts {
			if d.Name == name && d.ValidAt(asOf) {
				resolved = append(resolved, d)
			}
		}
	}
	return resolved, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	calls  int
	items  []saledomain.CartItem
	token  string
	err    error
	called chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{called: make(chan struct{}, 1)}
}

func (n *fakeNotifier) NotifyDeduction(ctx context.Context, items []saledomain.CartItem, token string) error {
	n.mu.Lock()
	n.calls++
	n.items = items
	n.token = token
	n.mu.Unlock()
	n.called <- struct{}{}
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func activeDiscount(name string, dType discountdomain.Type, value, minimumSpend string) discountdomain.Discount {
	d := discountdomain.Discount{
		ID:           name + "-id",
		Name:         name,
		Type:         dType,
		MinimumSpend: dec(minimumSpend),
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidTo:      time.Now().Add(time.Hour),
		Status:       discountdomain.StatusActive,
	}
	if dType == discountdomain.TypePercentage {
		d.PercentageValue = dec(value)
	} else {
		d.FixedValue = dec(value)
	}
	return d
}

func setupSaleRouter(c *SaleController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Simula o middleware de autenticação já executado
	authenticated := func(ctx *gin.Context) {
		ctx.Set(auth.ContextUsername, "maria")
		ctx.Set(auth.ContextUserRole, "cashier")
		ctx.Set(auth.ContextAccessToken, "test-token")
	}

	router.POST("/sales", authenticated, c.Create)
	router.GET("/sales", authenticated, c.List)
	router.GET("/sales/reports/daily", authenticated, c.DailyReport)
	router.GET("/sales/:id", authenticated, c.GetByID)
	return router
}

func newTestController(saleRepo *fakeSaleRepo, discountRepo *fakeDiscountRepo, notifier *fakeNotifier, out *syncBuffer) *SaleController {
	return NewSaleController(
		saleRepo,
		discountRepo,
		pricing.NewEngine(pricing.DefaultAddonPrices()),
		notifier,
		logger.NewLoggerWithOutput(out),
	)
}

func postSale(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func saleBody(discounts ...string) map[string]interface{} {
	if discounts == nil {
		discounts = []string{}
	}
	return map[string]interface{}{
		"cartItems": []map[string]interface{}{
			{"name": "Latte", "quantity": 2, "price": "100.00", "category": "drinks", "addons": map[string]int{}},
		},
		"orderType":        "dine-in",
		"paymentMethod":    "cash",
		"appliedDiscounts": discounts,
	}
}

func TestCreateSaleWithoutDiscounts(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, &fakeDiscountRepo{}, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt dto.SaleReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.SaleID)
	assert.Equal(t, "200.00", receipt.Subtotal)
	assert.Equal(t, "0.00", receipt.DiscountAmount)
	assert.Equal(t, "200.00", receipt.FinalTotal)

	require.NotNil(t, saleRepo.created)
	assert.Equal(t, "maria", saleRepo.created.CashierName)
	assert.Empty(t, saleRepo.created.Discounts)

	// A dedução de estoque é disparada depois do commit
	select {
	case <-notifier.called:
	case <-time.After(time.Second):
		t.Fatal("notificador de estoque não foi chamado")
	}
	assert.Equal(t, "test-token", notifier.token)
	require.Len(t, notifier.items, 1)
	assert.Equal(t, "Latte", notifier.items[0].Name)
	assert.Equal(t, 2, notifier.items[0].Quantity)
}

func TestCreateSaleDiscountBelowMinimumSpend(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	discountRepo := &fakeDiscountRepo{discounts: []discountdomain.Discount{
		activeDiscount("PROMO_10_OFF", discountdomain.TypePercentage, "10", "500.00"),
	}}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, discountRepo, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody("PROMO_10_OFF"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt dto.SaleReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "0.00", receipt.DiscountAmount)
	assert.Equal(t, "200.00", receipt.FinalTotal)

	require.NotNil(t, saleRepo.created)
	assert.Empty(t, saleRepo.created.Discounts, "desconto abaixo do gasto mínimo não deve ser registrado")
}

func TestCreateSaleWithStackedDiscounts(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	discountRepo := &fakeDiscountRepo{discounts: []discountdomain.Discount{
		activeDiscount("SENIOR_CITIZEN", discountdomain.TypePercentage, "20", "0"),
		activeDiscount("PROMO_10_OFF", discountdomain.TypePercentage, "10", "0"),
	}}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, discountRepo, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	body := map[string]interface{}{
		"cartItems": []map[string]interface{}{
			{"name": "Cold Brew", "quantity": 3, "price": "100.00", "category": "drinks"},
		},
		"orderType":        "take-out",
		"paymentMethod":    "card",
		"appliedDiscounts": []string{"SENIOR_CITIZEN", "PROMO_10_OFF"},
	}
	rec := postSale(t, router, body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt dto.SaleReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "300.00", receipt.Subtotal)
	assert.Equal(t, "90.00", receipt.DiscountAmount)
	assert.Equal(t, "210.00", receipt.FinalTotal)

	require.NotNil(t, saleRepo.created)
	require.Len(t, saleRepo.created.Discounts, 2)
}

func TestCreateSaleWithDuplicateDiscountNames(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	discountRepo := &fakeDiscountRepo{discounts: []discountdomain.Discount{
		activeDiscount("SENIOR_CITIZEN", discountdomain.TypePercentage, "20", "0"),
	}}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, discountRepo, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody("SENIOR_CITIZEN", "SENIOR_CITIZEN"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt dto.SaleReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "80.00", receipt.DiscountAmount, "cada ocorrência do desconto contribui")
	assert.Equal(t, "120.00", receipt.FinalTotal)

	// Uma única aplicação por desconto: a chave (venda, desconto) da
	// persistência nunca se repete
	require.NotNil(t, saleRepo.created)
	require.Len(t, saleRepo.created.Discounts, 1)
	assert.Equal(t, "SENIOR_CITIZEN-id", saleRepo.created.Discounts[0].DiscountID)
	assert.True(t, saleRepo.created.Discounts[0].Amount.Equal(dec("80.00")))
}

func TestCreateSaleUnresolvedDiscountIsIgnored(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, &fakeDiscountRepo{}, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody("DOES_NOT_EXIST"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt dto.SaleReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "0.00", receipt.DiscountAmount)
}

func TestCreateSaleInvalidBody(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	notifier := newFakeNotifier()
	ctrl := newTestController(saleRepo, &fakeDiscountRepo{}, notifier, &syncBuffer{})
	router := setupSaleRouter(ctrl)

	body := map[string]interface{}{
		"cartItems":     []map[string]interface{}{},
		"orderType":     "dine-in",
		"paymentMethod": "cash",
	}
	rec := postSale(t, router, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, saleRepo.created)
}

func TestCreateSalePersistenceFailure(t *testing.T) {
	saleRepo := &fakeSaleRepo{createErr: errors.New("insert em sale_items falhou")}
	notifier := newFakeNotifier()
	out := &syncBuffer{}
	ctrl := newTestController(saleRepo, &fakeDiscountRepo{}, notifier, out)
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody())

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// O detalhe do erro não vaza para o cliente
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "erro ao processar venda", errResp.Message)
	assert.NotContains(t, rec.Body.String(), "sale_items")

	// Sem commit, a dedução de estoque nunca é disparada
	select {
	case <-notifier.called:
		t.Fatal("notificador não deve ser chamado quando a persistência falha")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 0, notifier.callCount())
}

func TestCreateSaleInventoryFailureIsAbsorbed(t *testing.T) {
	saleRepo := &fakeSaleRepo{}
	notifier := newFakeNotifier()
	notifier.err = errors.New("serviço de produtos fora do ar")
	out := &syncBuffer{}
	ctrl := newTestController(saleRepo, &fakeDiscountRepo{}, notifier, out)
	router := setupSaleRouter(ctrl)

	rec := postSale(t, router, saleBody())

	// A venda já está durável: o cliente vê sucesso mesmo com a dedução falhando
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	select {
	case <-notifier.called:
	case <-time.After(time.Second):
		t.Fatal("notificador de estoque não foi chamado")
	}

	// A falha fica observável apenas no canal de log
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "dessincronizados")
	}, time.Second, 10*time.Millisecond)
}

func TestGetSaleByIDNotFound(t *testing.T) {
	ctrl := newTestController(&fakeSaleRepo{}, &fakeDiscountRepo{}, newFakeNotifier(), &syncBuffer{})
	router := setupSaleRouter(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/sales/missing-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSales(t *testing.T) {
	items := []saledomain.CartItem{
		{Name: "Latte", Quantity: 1, UnitPrice: dec("100.00")},
	}
	existing, err := saledomain.NewSale("dine-in", "cash", "maria", items, dec("100.00"), decimal.Zero, nil)
	require.NoError(t, err)

	ctrl := newTestController(&fakeSaleRepo{found: existing}, &fakeDiscountRepo{}, newFakeNotifier(), &syncBuffer{})
	router := setupSaleRouter(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/sales?page=1&page_size=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.SaleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Sales, 1)
	assert.Equal(t, existing.ID, list.Sales[0].ID)
}

func TestDailyReportInvalidDate(t *testing.T) {
	ctrl := newTestController(&fakeSaleRepo{}, &fakeDiscountRepo{}, newFakeNotifier(), &syncBuffer{})
	router := setupSaleRouter(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/sales/reports/daily?date=31-12-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
