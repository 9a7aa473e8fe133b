package business

import (
	"context"

	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la creación del perfil y el
// cambio de rol sean visibles juntos o no sean visibles.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		businessRepo repository.BusinessProfileRepository,
	) error) error
}
