package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Stubs mínimos dos contratos do gateway, só o que o handler exercita.

type stubTxManager struct{}

func (stubTxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, gateway.TransactionKey, struct{}{}))
}

// stubBasketRepo serve uma única cesta fixa, somente leitura.
type stubBasketRepo struct {
	basket *domain.Basket
}

func (s *stubBasketRepo) GetByID(ctx context.Context, basketID string) (*domain.Basket, error) {
	if s.basket == nil || s.basket.ID != basketID {
		return nil, domain.ErrBasketNotFound
	}
	return s.basket, nil
}

func (s *stubBasketRepo) AddInstrument(ctx context.Context, basketID string, inst *domain.PaymentInstrument) error {
	return nil
}

func (s *stubBasketRepo) RemoveInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	return nil
}

func (s *stubBasketRepo) SetInstrumentAmount(ctx context.Context, instrumentID uuid.UUID, amount domain.Money) error {
	return nil
}

func (s *stubBasketRepo) SaveLineItem(ctx context.Context, basketID string, item *domain.CertificateLineItem) error {
	return nil
}

func (s *stubBasketRepo) RemoveLineItem(ctx context.Context, itemID uuid.UUID) error {
	return nil
}

func (s *stubBasketRepo) Consume(ctx context.Context, basketID string) error {
	return nil
}

func (s *stubBasketRepo) WithTx(tx gateway.TransactionObject) gateway.BasketRepository {
	return s
}

func TestNewOrderNumber_Format(t *testing.T) {
	number := newOrderNumber()

	if !strings.HasPrefix(number, "ORD-") {
		t.Fatalf("expected ORD- prefix, got %s", number)
	}
	suffix := strings.TrimPrefix(number, "ORD-")
	if len(suffix) != 16 {
		t.Fatalf("expected 16 hex chars after prefix, got %d (%s)", len(suffix), number)
	}
	for _, c := range suffix {
		if !strings.ContainsRune("0123456789ABCDEF", c) {
			t.Fatalf("unexpected character %q in order number %s", c, number)
		}
	}
}

func TestNewOrderNumber_NoCollisions(t *testing.T) {
	// Com 64 bits de aleatoriedade uma colisão aqui denuncia regressão
	// no tamanho do sufixo.
	seen := make(map[string]bool, 100000)
	for i := 0; i < 100000; i++ {
		number := newOrderNumber()
		if seen[number] {
			t.Fatalf("duplicate order number generated: %s", number)
		}
		seen[number] = true
	}
}

func TestPlaceOrder_UncoveredBasketReturns422(t *testing.T) {
	// Cesta de 100.00 coberta só parcialmente por certificado,
	// sem instrumento convencional: não está pagável como está.
	total, err := domain.NewMoneyFromString("100.00", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	redeemed, err := domain.NewMoneyFromString("40.00", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := "GC-AAA"
	basket := domain.NewBasket("b-1", total)
	basket.AddInstrument(&domain.PaymentInstrument{
		ID:              uuid.New(),
		Kind:            domain.InstrumentGiftCertificate,
		Amount:          redeemed,
		CertificateCode: &code,
	})

	basketRepo := &stubBasketRepo{basket: basket}
	txManager := stubTxManager{}
	reconcileUC := usecase.NewReconcilePayment(basketRepo, txManager)
	placeUC := usecase.NewPlaceOrder(basketRepo, nil, nil, txManager, nil)
	h := NewCheckoutHandler(nil, nil, reconcileUC, placeUC)

	router := chi.NewRouter()
	router.Post("/baskets/{basketID}/checkout", h.PlaceOrder)

	req := httptest.NewRequest(http.MethodPost, "/baskets/b-1/checkout", strings.NewReader(`{"fraud_status":"ok"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "forma de pagamento") {
		t.Errorf("expected payment-required message, got %s", rec.Body.String())
	}
}
