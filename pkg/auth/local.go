package auth

import (
	"context"
	"errors"

	"github.com/hugohenrick/pos-cafeteria/pkg/jwt"
)

// LocalVerifier valida o token JWT localmente, sem consultar a autoridade
// externa. Exige que este serviço compartilhe o segredo de assinatura com o
// serviço de autenticação (JWT_SECRET)
type LocalVerifier struct{}

// NewLocalVerifier cria um verificador local de tokens
func NewLocalVerifier() *LocalVerifier {
	return &LocalVerifier{}
}

// Verify implementa Verifier validando a assinatura e a expiração do token
func (v *LocalVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, jwt.ErrExpiredToken) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &Identity{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
