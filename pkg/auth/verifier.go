package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrInvalidToken é retornado quando a autoridade rejeita a credencial
	ErrInvalidToken = errors.New("token inválido ou expirado")
	// ErrAuthorityUnavailable é retornado quando a autoridade está inacessível
	ErrAuthorityUnavailable = errors.New("serviço de autenticação indisponível")
)

// Identity representa a identidade verificada do chamador
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"userRole"`
}

// Verifier transforma uma credencial opaca em uma identidade com papel.
// A verificação pode ser uma chamada de rede, uma checagem local ou um
// claim em cache; o coordenador de vendas não depende de qual
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// HTTPVerifier valida a credencial consultando o serviço de autenticação
// externo. Cada requisição revalida o token; não há cache
type HTTPVerifier struct {
	client  *http.Client
	baseURL string
}

// NewHTTPVerifier cria um novo verificador HTTP apontando para o serviço de
// autenticação. O timeout limita a espera pela autoridade
func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Verify implementa Verifier consultando o endpoint "users/me" da autoridade
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição de verificação: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta da autoridade: %w", err)
	}

	return &identity, nil
}
