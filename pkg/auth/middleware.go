package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pos-cafeteria/internal/adapter/api/dto"
	"github.com/hugohenrick/pos-cafeteria/pkg/logger"
)

// Chaves do contexto preenchidas pelo middleware de autenticação
const (
	ContextUsername    = "username"
	ContextUserRole    = "user_role"
	ContextAccessToken = "access_token"
)

// RequireRoles cria um middleware que verifica a credencial do chamador e
// exige que o papel retornado esteja na lista permitida. A verificação
// acontece antes de qualquer efeito colateral da operação
func RequireRoles(verifier Verifier, log logger.Logger, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"autenticação requerida",
				"o cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"formato de token inválido",
				"use o formato 'Bearer <token>'",
			))
			return
		}
		token := tokenParts[1]

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrAuthorityUnavailable) {
				log.Error("serviço de autenticação indisponível", "error", err.Error())
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
					http.StatusServiceUnavailable,
					"serviço de autenticação indisponível",
					"não foi possível validar a credencial",
				))
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"token inválido",
				"credencial rejeitada pelo serviço de autenticação",
			))
			return
		}

		if !roleAllowed(identity.Role, allowedRoles) {
			log.Warn("acesso negado por papel insuficiente",
				"username", identity.Username,
				"role", identity.Role)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				http.StatusForbidden,
				"acesso negado",
				"o papel do usuário não permite esta operação",
			))
			return
		}

		c.Set(ContextUsername, identity.Username)
		c.Set(ContextUserRole, identity.Role)
		c.Set(ContextAccessToken, token)

		c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(role, a) {
			return true
		}
	}
	return false
}
