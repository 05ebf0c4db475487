package main

// @title           POS Cafeteria API
// @version         1.0
// @description     API de vendas do ponto de venda da cafeteria

// @host      localhost:9000
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
