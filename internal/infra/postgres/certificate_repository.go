package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CertificateRepository implementa gateway.CertificateRepository usando pgx/v5
type CertificateRepository struct {
	db querier
}

// NewCertificateRepository cria uma nova instância
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{db: pool}
}

// GetByCode busca o certificado pelo código (case-sensitive).
func (r *CertificateRepository) GetByCode(ctx context.Context, code string) (*domain.GiftCertificate, error) {
	// balance::text porque convertemos NUMERIC direto para decimal.Decimal
	const query = `
		SELECT code, balance::text, currency, status,
		       sender_name, recipient_name, recipient_email, message,
		       order_number, created_at
		FROM gift_certificates
		WHERE code = $1`

	var (
		cert        domain.GiftCertificate
		balanceText string
		currency    string
		createdAt   time.Time
	)
	err := r.db.QueryRow(ctx, query, code).Scan(
		&cert.Code, &balanceText, &currency, &cert.Status,
		&cert.SenderName, &cert.RecipientName, &cert.RecipientEmail, &cert.Message,
		&cert.OrderNumber, &createdAt,
	)
	if err != nil {
		// pgx retorna pgx.ErrNoRows, diferente de sql.ErrNoRows
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to get gift certificate: %w", err)
	}

	balance, err := decimal.NewFromString(balanceText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate balance: %w", err)
	}
	cert.Balance = domain.NewMoney(balance, currency)
	cert.CreatedAt = createdAt
	return &cert, nil
}

// Create materializa o certificado durável (chamado na finalização do pedido).
func (r *CertificateRepository) Create(ctx context.Context, certificate *domain.GiftCertificate) error {
	const query = `
		INSERT INTO gift_certificates
			(code, balance, currency, status,
			 sender_name, recipient_name, recipient_email, message,
			 order_number, created_at)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		certificate.Code,
		certificate.Balance.Amount.String(),
		certificate.Balance.Currency,
		certificate.Status,
		certificate.SenderName,
		certificate.RecipientName,
		certificate.RecipientEmail,
		certificate.Message,
		certificate.OrderNumber,
		certificate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create gift certificate: %w", err)
	}
	return nil
}

// Redeem debita o saldo de forma condicional (compare-and-swap no banco).
// A cláusula "AND balance >= amount" protege contra resgate concorrente
// do mesmo certificado em sessões diferentes.
func (r *CertificateRepository) Redeem(ctx context.Context, code string, amount domain.Money) error {
	const query = `
		UPDATE gift_certificates
		SET balance = balance - $1::numeric,
		    status = CASE WHEN balance - $1::numeric <= 0 THEN 'depleted' ELSE status END
		WHERE code = $2 AND balance >= $1::numeric`

	tag, err := r.db.Exec(ctx, query, amount.Amount.String(), code)
	if err != nil {
		return fmt.Errorf("failed to redeem gift certificate: %w", err)
	}

	// Se 0 linhas foram afetadas, a cláusula "balance >= amount" falhou
	if tag.RowsAffected() == 0 {
		return domain.ErrCertificateDepleted
	}
	return nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *CertificateRepository) WithTx(tx gateway.TransactionObject) gateway.CertificateRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &CertificateRepository{db: pgTx}
}
