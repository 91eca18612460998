package domain

import (
	"time"

	"github.com/google/uuid"
)

// InstrumentKind classifica o instrumento de pagamento.
type InstrumentKind string

const (
	// InstrumentGiftCertificate resgata valor de um certificado pré-pago já existente.
	InstrumentGiftCertificate InstrumentKind = "gift_certificate"
	// InstrumentConventional cobra um valor novo (cartão etc).
	InstrumentConventional InstrumentKind = "conventional"
)

// PaymentInstrument é um instrumento de pagamento preso à cesta (ou ao pedido,
// depois da finalização). Pertence exclusivamente ao dono: removido da cesta,
// deixa de existir.
type PaymentInstrument struct {
	ID     uuid.UUID
	Kind   InstrumentKind
	Amount Money
	// CertificateCode só é preenchido quando Kind == InstrumentGiftCertificate
	CertificateCode *string
	CreatedAt       time.Time
}

// IsGiftCertificate facilita os filtros do ledger.
func (p *PaymentInstrument) IsGiftCertificate() bool {
	return p.Kind == InstrumentGiftCertificate
}

// CertificateLineItem é um PEDIDO de compra de certificado, escopado à cesta.
// Só vira um GiftCertificate durável na finalização do pedido, nunca antes.
type CertificateLineItem struct {
	ID             uuid.UUID
	SenderName     string
	RecipientName  string
	RecipientEmail string
	Message        string
	Amount         Money
	CreatedAt      time.Time
}

// Basket guarda os instrumentos de pagamento e os itens de certificado,
// mais o total bruto calculado pelo motor de preços externo.
type Basket struct {
	ID              string
	Currency        string
	TotalGrossPrice Money

	// Instrumentos em ordem de inserção (a ordem importa:
	// o balanceador pega o PRIMEIRO instrumento convencional).
	Instruments []*PaymentInstrument

	// Itens em ordem de inserção para exibição...
	lineItems []*CertificateLineItem
	// ...e índice por UUID para lookup O(1) na edição do formulário.
	lineItemIndex map[uuid.UUID]*CertificateLineItem
}

// NewBasket monta a cesta com o total vindo do motor de preços.
func NewBasket(id string, total Money) *Basket {
	return &Basket{
		ID:              id,
		Currency:        total.Currency,
		TotalGrossPrice: total,
		lineItemIndex:   make(map[uuid.UUID]*CertificateLineItem),
	}
}

// --- Ledger de instrumentos ---

// GiftInstruments lista os instrumentos de certificado em ordem de inserção.
// Se um código for passado, filtra por ele (case-sensitive).
func (b *Basket) GiftInstruments(certificateCode ...string) []*PaymentInstrument {
	var out []*PaymentInstrument
	for _, inst := range b.Instruments {
		if !inst.IsGiftCertificate() {
			continue
		}
		if len(certificateCode) > 0 {
			if inst.CertificateCode == nil || *inst.CertificateCode != certificateCode[0] {
				continue
			}
		}
		out = append(out, inst)
	}
	return out
}

// FirstConventionalInstrument devolve o primeiro instrumento não-certificado
// encontrado, ou nil. Instrumentos convencionais extras são invisíveis aqui:
// a invariante "no máximo um convencional por cesta" é garantida na borda de anexação.
func (b *Basket) FirstConventionalInstrument() *PaymentInstrument {
	for _, inst := range b.Instruments {
		if !inst.IsGiftCertificate() {
			return inst
		}
	}
	return nil
}

// AddInstrument anexa no fim, preservando a ordem de inserção.
func (b *Basket) AddInstrument(inst *PaymentInstrument) {
	b.Instruments = append(b.Instruments, inst)
}

// RemoveInstrument desanexa da cesta. Idempotente: remover de novo é no-op.
func (b *Basket) RemoveInstrument(inst *PaymentInstrument) {
	for i, existing := range b.Instruments {
		if existing.ID == inst.ID {
			b.Instruments = append(b.Instruments[:i], b.Instruments[i+1:]...)
			return
		}
	}
}

// RedeemedTotal soma o valor de todos os instrumentos de certificado.
// Leitura pontual (snapshot), sem efeito colateral.
func (b *Basket) RedeemedTotal() Money {
	total := ZeroMoney(b.Currency)
	for _, inst := range b.GiftInstruments() {
		// Moeda única por cesta é garantida pelo motor de preços.
		// Se um instrumento chegar com moeda divergente (bug na anexação),
		// ele fica de fora da soma em vez de corromper o acumulador.
		sum, err := total.Add(inst.Amount)
		if err != nil {
			continue
		}
		total = sum
	}
	return total
}

// OpenBalance é quanto ainda falta pagar depois dos certificados.
// Pode ser negativo quando os certificados cobrem além do total.
func (b *Basket) OpenBalance() Money {
	balance, _ := b.TotalGrossPrice.Sub(b.RedeemedTotal())
	return balance
}

// --- Itens de certificado ---

// AddLineItem registra um pedido de compra de certificado vindo do formulário.
func (b *Basket) AddLineItem(item *CertificateLineItem) {
	if b.lineItemIndex == nil {
		b.lineItemIndex = make(map[uuid.UUID]*CertificateLineItem)
	}
	b.lineItems = append(b.lineItems, item)
	b.lineItemIndex[item.ID] = item
}

// LineItemByID faz lookup O(1) pelo UUID do item.
func (b *Basket) LineItemByID(id uuid.UUID) (*CertificateLineItem, error) {
	item, ok := b.lineItemIndex[id]
	if !ok {
		return nil, ErrLineItemNotFound
	}
	return item, nil
}

// LineItems devolve os itens em ordem de inserção (para exibição).
func (b *Basket) LineItems() []*CertificateLineItem {
	return b.lineItems
}

// RemoveLineItem apaga o item da cesta. Erro se o UUID não existir.
func (b *Basket) RemoveLineItem(id uuid.UUID) error {
	if _, ok := b.lineItemIndex[id]; !ok {
		return ErrLineItemNotFound
	}
	delete(b.lineItemIndex, id)
	for i, item := range b.lineItems {
		if item.ID == id {
			b.lineItems = append(b.lineItems[:i], b.lineItems[i+1:]...)
			break
		}
	}
	return nil
}
