package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/controller"
)

// SetupSaleRoutes configura as rotas para vendas. A criação de venda usa a
// lista de papéis do caixa; listagem e relatórios exigem papéis de gestão
func SetupSaleRoutes(
	router *gin.RouterGroup,
	saleController *controller.SaleController,
	cashierAuth gin.HandlerFunc,
	managerAuth gin.HandlerFunc,
) {
	salesRouter := router.Group("/sales")
	{
		salesRouter.POST("", cashierAuth, saleController.Create)
		salesRouter.GET("", managerAuth, saleController.List)
		salesRouter.GET("/reports/daily", managerAuth, saleController.DailyReport)
		salesRouter.GET("/:id", managerAuth, saleController.GetByID)
	}
}
