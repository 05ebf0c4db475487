package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/dto"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/repository"
	discountdomain "github.com/hugohenrick/pos-cafeteria/internal/domain/discount"
	"github.com/hugohenrick/pos-cafeteria/internal/domain/pricing"
	saledomain "github.com/hugohenrick/pos-cafeteria/internal/domain/sale"
	"github.com/hugohenrick/pos-cafeteria/pkg/auth"
	"github.com/hugohenrick/pos-cafeteria/pkg/inventory"
	"github.com/hugohenrick/pos-cafeteria/pkg/logger"
)

const inventoryNotifyTimeout = 10 * time.Second

// SaleController gerencia as requisições relacionadas a vendas
type SaleController struct {
	saleRepo      saledomain.Repository
	discountRepo  discountdomain.Repository
	pricingEngine *pricing.Engine
	notifier      inventory.Notifier
	logger        logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(
	saleRepo saledomain.Repository,
	discountRepo discountdomain.Repository,
	pricingEngine *pricing.Engine,
	notifier inventory.Notifier,
	logger logger.Logger,
) *SaleController {
	return &SaleController{
		saleRepo:      saleRepo,
		discountRepo:  discountRepo,
		pricingEngine: pricingEngine,
		notifier:      notifier,
		logger:        logger,
	}
}

// Create cria uma nova venda
// @Summary Criar venda
// @Description Calcula totais e descontos no servidor, persiste a venda atomicamente e notifica a dedução de estoque
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleReceiptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	cashierName := ctx.GetString(auth.ContextUsername)
	if cashierName == "" {
		cashierName = "Unknown"
	}

	items := req.ToCartItems()

	// Resolver os descontos válidos no momento da venda; nomes não
	// resolvidos são omitidos
	resolved, err := c.discountRepo.ResolveActive(ctx, req.AppliedDiscounts, time.Now().UTC())
	if err != nil {
		c.logger.Error("erro ao resolver descontos", "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar venda", ""))
		return
	}

	totals := c.pricingEngine.ComputeTotals(items, resolved)

	applications := make([]saledomain.DiscountApplication, 0, len(totals.Applied))
	for _, a := range totals.Applied {
		applications = append(applications, saledomain.DiscountApplication{
			DiscountID:   a.DiscountID,
			DiscountName: a.DiscountName,
			Amount:       a.Amount,
		})
	}

	s, err := saledomain.NewSale(
		req.OrderType,
		req.PaymentMethod,
		cashierName,
		items,
		totals.Subtotal,
		totals.DiscountTotal,
		applications,
	)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar venda", err.Error()))
		return
	}

	if err := c.saleRepo.Create(ctx, s); err != nil {
		// Detalhe interno só vai para o log, nunca para o cliente
		c.logger.Error("erro ao persistir venda", "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar venda", ""))
		return
	}

	// A venda já está durável; a dedução de estoque é melhor esforço e
	// nunca falha a requisição do caixa
	token := ctx.GetString(auth.ContextAccessToken)
	go c.notifyDeduction(s.ID, items, token)

	ctx.JSON(http.StatusCreated, dto.ToSaleReceiptResponse(s))
}

// notifyDeduction envia a dedução de estoque depois do commit da venda.
// Qualquer falha é registrada como evento de dessincronização e absorvida
func (c *SaleController) notifyDeduction(saleID string, items []saledomain.CartItem, token string) {
	notifyCtx, cancel := context.WithTimeout(context.Background(), inventoryNotifyTimeout)
	defer cancel()

	if err := c.notifier.NotifyDeduction(notifyCtx, items, token); err != nil {
		c.logger.Error("venda e estoque dessincronizados: falha na dedução de estoque",
			"sale_id", saleID,
			"error", err.Error())
	}
}

// List lista as vendas com paginação
// @Summary Listar vendas
// @Description Lista as vendas mais recentes
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.SaleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	offset := (pagination.Page - 1) * pagination.PageSize
	sales, totalCount, err := c.saleRepo.List(ctx, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar vendas", "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales, totalCount, pagination.Page, pagination.PageSize))
}

// GetByID busca uma venda pelo ID
// @Summary Buscar venda
// @Description Busca uma venda pelo ID, incluindo itens e descontos aplicados
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	s, err := c.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", ""))
			return
		}
		c.logger.Error("erro ao buscar venda", "sale_id", id, "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// DailyReport consolida as vendas de um dia
// @Summary Relatório diário de vendas
// @Description Consolida quantidade, valor bruto, descontos e valor líquido das vendas do dia
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param date query string false "Data no formato YYYY-MM-DD (padrão: hoje, UTC)"
// @Success 200 {object} dto.DailyReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/reports/daily [get]
func (c *SaleController) DailyReport(ctx *gin.Context) {
	day := time.Now().UTC()
	if dateParam := ctx.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "data inválida", "use o formato YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	summary, err := c.saleRepo.DailySummary(ctx, day)
	if err != nil {
		c.logger.Error("erro ao consolidar vendas do dia", "error", err.Error())
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao gerar relatório", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDailyReportResponse(summary))
}
