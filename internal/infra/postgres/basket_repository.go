package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BasketRepository implementa gateway.BasketRepository usando pgx/v5.
// A ordem de inserção dos instrumentos e itens é preservada pela coluna
// "position" (BIGSERIAL), e o balanceador depende dela.
type BasketRepository struct {
	db querier
}

func NewBasketRepository(pool *pgxpool.Pool) *BasketRepository {
	return &BasketRepository{db: pool}
}

// GetByID monta a cesta inteira: total, instrumentos e itens em ordem.
func (r *BasketRepository) GetByID(ctx context.Context, basketID string) (*domain.Basket, error) {
	const basketQuery = `
		SELECT id, currency, total_gross_price::text
		FROM baskets
		WHERE id = $1`

	var (
		id        string
		currency  string
		totalText string
	)
	err := r.db.QueryRow(ctx, basketQuery, basketID).Scan(&id, &currency, &totalText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBasketNotFound
		}
		return nil, fmt.Errorf("failed to get basket: %w", err)
	}

	total, err := decimal.NewFromString(totalText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse basket total: %w", err)
	}

	basket := domain.NewBasket(id, domain.NewMoney(total, currency))

	if err := r.loadInstruments(ctx, basket); err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}

func (r *BasketRepository) loadInstruments(ctx context.Context, basket *domain.Basket) error {
	const query = `
		SELECT id, kind, amount::text, certificate_code, created_at
		FROM payment_instruments
		WHERE basket_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, basket.ID)
	if err != nil {
		return fmt.Errorf("failed to list payment instruments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			inst       domain.PaymentInstrument
			amountText string
			createdAt  time.Time
		)
		if err := rows.Scan(&inst.ID, &inst.Kind, &amountText, &inst.CertificateCode, &createdAt); err != nil {
			return fmt.Errorf("failed to scan payment instrument: %w", err)
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return fmt.Errorf("failed to parse instrument amount: %w", err)
		}
		inst.Amount = domain.NewMoney(amount, basket.Currency)
		inst.CreatedAt = createdAt
		basket.AddInstrument(&inst)
	}
	return rows.Err()
}

func (r *BasketRepository) loadLineItems(ctx context.Context, basket *domain.Basket) error {
	const query = `
		SELECT id, sender_name, recipient_name, recipient_email, message, amount::text, created_at
		FROM certificate_line_items
		WHERE basket_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, basket.ID)
	if err != nil {
		return fmt.Errorf("failed to list certificate line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item       domain.CertificateLineItem
			amountText string
			createdAt  time.Time
		)
		if err := rows.Scan(&item.ID, &item.SenderName, &item.RecipientName, &item.RecipientEmail, &item.Message, &amountText, &createdAt); err != nil {
			return fmt.Errorf("failed to scan certificate line item: %w", err)
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return fmt.Errorf("failed to parse line item amount: %w", err)
		}
		item.Amount = domain.NewMoney(amount, basket.Currency)
		item.CreatedAt = createdAt
		basket.AddLineItem(&item)
	}
	return rows.Err()
}

// AddInstrument anexa o instrumento no fim (position vem do BIGSERIAL).
func (r *BasketRepository) AddInstrument(ctx context.Context, basketID string, inst *domain.PaymentInstrument) error {
	const query = `
		INSERT INTO payment_instruments (id, basket_id, kind, amount, certificate_code, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		inst.ID, basketID, inst.Kind, inst.Amount.Amount.String(), inst.CertificateCode, inst.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add payment instrument: %w", err)
	}
	return nil
}

// RemoveInstrument destrói o instrumento. Idempotente: 0 linhas não é erro.
func (r *BasketRepository) RemoveInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payment_instruments WHERE id = $1`, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to remove payment instrument: %w", err)
	}
	return nil
}

// SetInstrumentAmount grava o valor reconciliado do instrumento.
func (r *BasketRepository) SetInstrumentAmount(ctx context.Context, instrumentID uuid.UUID, amount domain.Money) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payment_instruments SET amount = $1::numeric WHERE id = $2`,
		amount.Amount.String(), instrumentID)
	if err != nil {
		return fmt.Errorf("failed to set instrument amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInstrumentNotFound
	}
	return nil
}

// SaveLineItem cria ou edita em place (upsert pelo UUID do item).
func (r *BasketRepository) SaveLineItem(ctx context.Context, basketID string, item *domain.CertificateLineItem) error {
	const query = `
		INSERT INTO certificate_line_items
			(id, basket_id, sender_name, recipient_name, recipient_email, message, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)
		ON CONFLICT (id) DO UPDATE SET
			sender_name = EXCLUDED.sender_name,
			recipient_name = EXCLUDED.recipient_name,
			recipient_email = EXCLUDED.recipient_email,
			message = EXCLUDED.message,
			amount = EXCLUDED.amount`

	_, err := r.db.Exec(ctx, query,
		item.ID, basketID, item.SenderName, item.RecipientName,
		item.RecipientEmail, item.Message, item.Amount.Amount.String(), item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save certificate line item: %w", err)
	}
	return nil
}

// RemoveLineItem apaga o item explicitamente.
func (r *BasketRepository) RemoveLineItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM certificate_line_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove certificate line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLineItemNotFound
	}
	return nil
}

// Consume destrói a cesta consumida pela finalização: instrumentos,
// itens e a própria linha. Os dados do pagamento já foram copiados
// para o pedido, então nada aqui é perdido.
func (r *BasketRepository) Consume(ctx context.Context, basketID string) error {
	statements := []string{
		`DELETE FROM payment_instruments WHERE basket_id = $1`,
		`DELETE FROM certificate_line_items WHERE basket_id = $1`,
		`DELETE FROM baskets WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt, basketID); err != nil {
			return fmt.Errorf("failed to consume basket: %w", err)
		}
	}
	return nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *BasketRepository) WithTx(tx gateway.TransactionObject) gateway.BasketRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &BasketRepository{db: pgTx}
}
