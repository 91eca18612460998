package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
)

// CertificateRepository define o contrato com a autoridade de emissão
// de certificados. O Usecase só interage com isso, sem saber se é Postgres
// ou um serviço remoto.
type CertificateRepository interface {
	// GetByCode busca pelo código (case-sensitive). domain.ErrCertificateNotFound se não existir.
	GetByCode(ctx context.Context, code string) (*domain.GiftCertificate, error)

	// Create materializa um certificado durável (usado na finalização do pedido).
	Create(ctx context.Context, certificate *domain.GiftCertificate) error

	// Redeem debita o saldo de forma condicional no banco (compare-and-swap):
	// o mesmo certificado pode ser referenciado por pedidos concorrentes
	// em sessões diferentes. domain.ErrCertificateDepleted se o saldo não cobrir.
	Redeem(ctx context.Context, code string, amount domain.Money) error

	// WithTx permite que o repositório participe de uma transação iniciada no nível superior.
	// Retorna uma nova instância do repositório ligada àquela transação.
	WithTx(tx TransactionObject) CertificateRepository
}
