package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/controller"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/route"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/repository"
	"github.com/hugohenrick/pos-cafeteria/internal/domain/pricing"
	"github.com/hugohenrick/pos-cafeteria/internal/infrastructure/database"
	"github.com/hugohenrick/pos-cafeteria/pkg/auth"
	"github.com/hugohenrick/pos-cafeteria/pkg/inventory"
	"github.com/hugohenrick/pos-cafeteria/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router         *gin.Engine
	db             *pgxpool.Pool
	logger         logger.Logger
	verifier       auth.Verifier
	saleController *controller.SaleController
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	// Carregar a tabela de preços dos complementos
	addonPrices, err := pricing.AddonPricesFromEnv()
	if err != nil {
		return nil, err
	}
	pricingEngine := pricing.NewEngine(addonPrices)

	// Criar repositórios
	saleRepo := repository.NewSaleRepository(db)
	discountRepo := repository.NewDiscountRepository(db, log)

	// Criar verificador de identidade. O modo "local" valida o token JWT
	// neste serviço; o modo padrão consulta o serviço de autenticação
	var verifier auth.Verifier
	if getEnv("AUTH_MODE", "remote") == "local" {
		verifier = auth.NewLocalVerifier()
	} else {
		verifier = auth.NewHTTPVerifier(
			getEnv("AUTH_SERVICE_URL", "http://localhost:4000"),
			envDuration("AUTH_TIMEOUT", 5*time.Second),
		)
	}

	// Criar notificador de dedução de estoque
	notifier := inventory.NewHTTPNotifier(
		getEnv("PRODUCT_SERVICE_URL", "http://localhost:9001"),
		envDuration("PRODUCT_TIMEOUT", 5*time.Second),
	)

	// Criar controllers
	saleController := controller.NewSaleController(saleRepo, discountRepo, pricingEngine, notifier, log)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig()))

	return &App{
		router:         router,
		db:             db,
		logger:         log,
		verifier:       verifier,
		saleController: saleController,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	cashierAuth := auth.RequireRoles(a.verifier, a.logger, envRoles("SALE_ALLOWED_ROLES", "admin,manager,staff,cashier")...)
	managerAuth := auth.RequireRoles(a.verifier, a.logger, envRoles("REPORT_ALLOWED_ROLES", "admin,manager")...)

	route.SetupSaleRoutes(api, a.saleController, cashierAuth, managerAuth)
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := getEnv("PORT", "9000")
	a.logger.Info("iniciando servidor", "port", port)
	return a.router.Run(fmt.Sprintf(":%s", port))
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// corsConfig monta a configuração de CORS a partir do ambiente
func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")
	config.AllowOrigins = strings.Split(origins, ",")
	config.AllowCredentials = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	return config
}

// envRoles lê uma lista de papéis separada por vírgulas do ambiente
func envRoles(key, defaultValue string) []string {
	roles := strings.Split(getEnv(key, defaultValue), ",")
	for i := range roles {
		roles[i] = strings.TrimSpace(roles[i])
	}
	return roles
}

// envDuration lê uma duração do ambiente (ex.: "5s", "500ms")
func envDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
