package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/google/uuid"
)

// Mocks feitos à mão dos contratos do gateway, protegidos por mutex.

// txStub é o "crachá" falso injetado no contexto pelo mockTxManager.
type txStub struct{}

type mockTxManager struct {
	beginErr error
}

func (m *mockTxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	return fn(context.WithValue(ctx, gateway.TransactionKey, txStub{}))
}

// mockBasketRepo guarda cestas autoritativas em memória.
// GetByID devolve uma CÓPIA, como o repositório real monta das linhas do banco.
type mockBasketRepo struct {
	mu           sync.Mutex
	baskets      map[string]*domain.Basket
	setAmountErr error
	consumeErr   error
}

func newMockBasketRepo() *mockBasketRepo {
	return &mockBasketRepo{baskets: make(map[string]*domain.Basket)}
}

func (m *mockBasketRepo) put(basket *domain.Basket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baskets[basket.ID] = basket
}

func (m *mockBasketRepo) GetByID(ctx context.Context, basketID string) (*domain.Basket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.baskets[basketID]
	if !ok {
		return nil, domain.ErrBasketNotFound
	}

	clone := domain.NewBasket(stored.ID, stored.TotalGrossPrice)
	for _, inst := range stored.Instruments {
		copied := *inst
		clone.AddInstrument(&copied)
	}
	for _, item := range stored.LineItems() {
		copied := *item
		clone.AddLineItem(&copied)
	}
	return clone, nil
}

func (m *mockBasketRepo) AddInstrument(ctx context.Context, basketID string, inst *domain.PaymentInstrument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.baskets[basketID]
	if !ok {
		return domain.ErrBasketNotFound
	}
	copied := *inst
	stored.AddInstrument(&copied)
	return nil
}

func (m *mockBasketRepo) RemoveInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, basket := range m.baskets {
		for _, inst := range basket.Instruments {
			if inst.ID == instrumentID {
				basket.RemoveInstrument(inst)
				return nil
			}
		}
	}
	return nil // idempotente
}

func (m *mockBasketRepo) SetInstrumentAmount(ctx context.Context, instrumentID uuid.UUID, amount domain.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setAmountErr != nil {
		return m.setAmountErr
	}
	for _, basket := range m.baskets {
		for _, inst := range basket.Instruments {
			if inst.ID == instrumentID {
				inst.Amount = amount
				return nil
			}
		}
	}
	return domain.ErrInstrumentNotFound
}

func (m *mockBasketRepo) SaveLineItem(ctx context.Context, basketID string, item *domain.CertificateLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.baskets[basketID]
	if !ok {
		return domain.ErrBasketNotFound
	}

	copied := *item
	if existing, err := stored.LineItemByID(item.ID); err == nil {
		*existing = copied
		return nil
	}
	stored.AddLineItem(&copied)
	return nil
}

func (m *mockBasketRepo) RemoveLineItem(ctx context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, basket := range m.baskets {
		if err := basket.RemoveLineItem(itemID); err == nil {
			return nil
		}
	}
	return domain.ErrLineItemNotFound
}

func (m *mockBasketRepo) Consume(ctx context.Context, basketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consumeErr != nil {
		return m.consumeErr
	}
	delete(m.baskets, basketID)
	return nil
}

func (m *mockBasketRepo) WithTx(tx gateway.TransactionObject) gateway.BasketRepository {
	return m
}

// mockCertificateRepo simula a autoridade de emissão.
type mockCertificateRepo struct {
	mu           sync.Mutex
	certificates map[string]*domain.GiftCertificate
	created      []*domain.GiftCertificate
	createErr    error
}

func newMockCertificateRepo() *mockCertificateRepo {
	return &mockCertificateRepo{certificates: make(map[string]*domain.GiftCertificate)}
}

func (m *mockCertificateRepo) put(cert *domain.GiftCertificate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.certificates[cert.Code] = cert
}

func (m *mockCertificateRepo) GetByCode(ctx context.Context, code string) (*domain.GiftCertificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cert, ok := m.certificates[code]
	if !ok {
		return nil, domain.ErrCertificateNotFound
	}
	copied := *cert
	return &copied, nil
}

func (m *mockCertificateRepo) Create(ctx context.Context, certificate *domain.GiftCertificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	copied := *certificate
	m.created = append(m.created, &copied)
	m.certificates[certificate.Code] = &copied
	return nil
}

func (m *mockCertificateRepo) Redeem(ctx context.Context, code string, amount domain.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cert, ok := m.certificates[code]
	if !ok {
		return domain.ErrCertificateDepleted
	}
	return cert.Redeem(amount)
}

func (m *mockCertificateRepo) WithTx(tx gateway.TransactionObject) gateway.CertificateRepository {
	return m
}

// mockOrderManagement registra colocações e falhas.
type mockOrderManagement struct {
	mu          sync.Mutex
	placeStatus gateway.PlacementStatus
	placeErr    error
	placed      []*domain.Order
	statuses    []*domain.Order
	failed      []*domain.Order
}

func newMockOrderManagement() *mockOrderManagement {
	return &mockOrderManagement{placeStatus: gateway.PlacementOK}
}

func (m *mockOrderManagement) Place(ctx context.Context, order *domain.Order) (gateway.PlacementStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.placeErr != nil {
		return gateway.PlacementError, m.placeErr
	}
	if m.placeStatus != gateway.PlacementOK {
		return m.placeStatus, nil
	}
	m.placed = append(m.placed, order)
	return gateway.PlacementOK, nil
}

func (m *mockOrderManagement) SetStatuses(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, order)
	return nil
}

func (m *mockOrderManagement) Fail(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, order)
	return nil
}

func (m *mockOrderManagement) WithTx(tx gateway.TransactionObject) gateway.OrderManagement {
	return m
}

// mockPublisher conta as notificações despachadas.
type publishedEvent struct {
	exchange   string
	routingKey string
	body       interface{}
}

type mockPublisher struct {
	mu         sync.Mutex
	events     []publishedEvent
	publishErr error
}

func (m *mockPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.events = append(m.events, publishedEvent{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}

var errStorage = errors.New("storage unavailable")
