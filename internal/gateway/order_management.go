package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
)

// PlacementStatus é o resultado que o sistema de pedidos devolve.
type PlacementStatus string

const (
	PlacementOK    PlacementStatus = "ok"
	PlacementError PlacementStatus = "error"
)

// OrderManagement é o contrato com o sistema de gestão de pedidos.
// As duas operações são atômicas na camada dele.
type OrderManagement interface {
	// Place comita o pedido. Status diferente de PlacementOK aborta a finalização.
	Place(ctx context.Context, order *domain.Order) (PlacementStatus, error)

	// SetStatuses grava estado, confirmação (decidida pelo sinal de fraude)
	// e status de exportação, dentro da mesma transação da colocação.
	SetStatuses(ctx context.Context, order *domain.Order) error

	// Fail marca o pedido como falho. É a ação compensatória da finalização,
	// executada na sua própria transação pequena.
	Fail(ctx context.Context, order *domain.Order) error

	// WithTx segue o mesmo padrão dos repositórios para participar da transação atômica
	WithTx(tx TransactionObject) OrderManagement
}
