package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/google/uuid"
)

// BasketRepository persiste o estado da cesta: instrumentos de pagamento
// e itens de certificado. A cesta em si (sessão, produtos, preços) pertence
// a colaboradores externos; aqui só tocamos no que o checkout reconcilia.
type BasketRepository interface {
	// GetByID monta a cesta com instrumentos e itens em ordem de inserção.
	GetByID(ctx context.Context, basketID string) (*domain.Basket, error)

	// AddInstrument anexa um instrumento novo à cesta.
	AddInstrument(ctx context.Context, basketID string, inst *domain.PaymentInstrument) error

	// RemoveInstrument desanexa (e destrói) o instrumento. Idempotente.
	RemoveInstrument(ctx context.Context, instrumentID uuid.UUID) error

	// SetInstrumentAmount grava o valor cobrado do instrumento (reconciliação).
	SetInstrumentAmount(ctx context.Context, instrumentID uuid.UUID, amount domain.Money) error

	// SaveLineItem cria ou atualiza (pelo UUID) um item de certificado.
	SaveLineItem(ctx context.Context, basketID string, item *domain.CertificateLineItem) error

	// RemoveLineItem apaga o item. domain.ErrLineItemNotFound se não existir.
	RemoveLineItem(ctx context.Context, itemID uuid.UUID) error

	// Consume destrói a cesta (instrumentos e itens incluídos) depois que
	// ela virou pedido. Roda dentro da transação de finalização.
	Consume(ctx context.Context, basketID string) error

	// WithTx segue o mesmo padrão dos outros repositórios para participar da transação atômica
	WithTx(tx TransactionObject) BasketRepository
}
