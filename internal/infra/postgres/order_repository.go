package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository implementa gateway.OrderManagement usando pgx/v5.
// O sistema de pedidos "de verdade" mora atrás deste contrato; aqui
// é a implementação local que comita o pedido e seus instrumentos.
type OrderRepository struct {
	db querier
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: pool}
}

// Place comita o pedido: a linha do pedido mais a cópia dos instrumentos
// da cesta (que a partir daqui são imutáveis para o checkout).
func (r *OrderRepository) Place(ctx context.Context, order *domain.Order) (gateway.PlacementStatus, error) {
	const orderQuery = `
		INSERT INTO orders
			(number, basket_id, total, currency, state, confirmation_status, export_status, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)`

	order.CreatedAt = time.Now()
	_, err := r.db.Exec(ctx, orderQuery,
		order.Number, order.BasketID,
		order.Total.Amount.String(), order.Total.Currency,
		order.State, order.ConfirmationStatus, order.ExportStatus, order.CreatedAt)
	if err != nil {
		return gateway.PlacementError, fmt.Errorf("failed to place order: %w", err)
	}

	const instQuery = `
		INSERT INTO order_payment_instruments (id, order_number, kind, amount, certificate_code)
		VALUES ($1, $2, $3, $4::numeric, $5)`

	for _, inst := range order.Instruments {
		_, err := r.db.Exec(ctx, instQuery,
			inst.ID, order.Number, inst.Kind, inst.Amount.Amount.String(), inst.CertificateCode)
		if err != nil {
			return gateway.PlacementError, fmt.Errorf("failed to copy payment instrument to order: %w", err)
		}
	}

	return gateway.PlacementOK, nil
}

// SetStatuses grava estado e status decididos depois da colocação.
func (r *OrderRepository) SetStatuses(ctx context.Context, order *domain.Order) error {
	const query = `
		UPDATE orders
		SET state = $1, confirmation_status = $2, export_status = $3
		WHERE number = $4`

	tag, err := r.db.Exec(ctx, query,
		order.State, order.ConfirmationStatus, order.ExportStatus, order.Number)
	if err != nil {
		return fmt.Errorf("failed to set order statuses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlacementFailed
	}
	return nil
}

// Fail marca o pedido como falho (ação compensatória).
// O upsert cobre o caso da falha ter acontecido ANTES da linha existir:
// o registro do fracasso fica de qualquer jeito. O WHERE garante que só
// tocamos na linha se ela for DESTA cesta: se o número colidiu com um
// pedido de outra cesta, o pedido alheio fica intacto.
func (r *OrderRepository) Fail(ctx context.Context, order *domain.Order) error {
	const query = `
		INSERT INTO orders
			(number, basket_id, total, currency, state, confirmation_status, export_status, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8)
		ON CONFLICT (number) DO UPDATE SET state = EXCLUDED.state
		WHERE orders.basket_id = EXCLUDED.basket_id`

	_, err := r.db.Exec(ctx, query,
		order.Number, order.BasketID,
		order.Total.Amount.String(), order.Total.Currency,
		domain.OrderFailed, domain.OrderNotConfirmed, domain.ExportHeld, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark order as failed: %w", err)
	}
	return nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *OrderRepository) WithTx(tx gateway.TransactionObject) gateway.OrderManagement {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &OrderRepository{db: pgTx}
}
