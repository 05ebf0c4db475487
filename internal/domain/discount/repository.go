package discount

import (
	"context"
	"time"
)

// Repository define a interface para consulta de descontos
type Repository interface {
	// ResolveActive busca os descontos com os nomes informados que estão
	// ativos e válidos no instante asOf. Nomes não encontrados, inativos ou
	// fora da janela de validade são omitidos do resultado
	ResolveActive(ctx context.Context, names []string, asOf time.Time) ([]Discount, error)
}
