package domain

import "time"

// OrderState é a máquina de estados da finalização:
// pending -> placing -> {placed, failed}
type OrderState string

const (
	OrderPending OrderState = "pending"
	OrderPlacing OrderState = "placing"
	OrderPlaced  OrderState = "placed"
	OrderFailed  OrderState = "failed"
)

// ConfirmationStatus vem do sinal de fraude fornecido externamente.
type ConfirmationStatus string

const (
	OrderConfirmed    ConfirmationStatus = "confirmed"
	OrderNotConfirmed ConfirmationStatus = "not_confirmed"
)

// ExportStatus controla se o pedido segue para os sistemas de fulfillment.
type ExportStatus string

const (
	ExportReady ExportStatus = "ready"
	ExportHeld  ExportStatus = "held"
)

// Order é criado a partir da cesta na hora da finalização.
// Depois de colocado, os instrumentos viram imutáveis para este núcleo.
type Order struct {
	Number             string
	BasketID           string
	Total              Money
	State              OrderState
	ConfirmationStatus ConfirmationStatus
	ExportStatus       ExportStatus

	Instruments      []*PaymentInstrument
	CertificateItems []*CertificateLineItem

	CreatedAt time.Time
}

// NewOrderFromBasket copia instrumentos e itens da cesta para o pedido.
func NewOrderFromBasket(number string, basket *Basket) *Order {
	return &Order{
		Number:             number,
		BasketID:           basket.ID,
		Total:              basket.TotalGrossPrice,
		State:              OrderPending,
		ConfirmationStatus: OrderNotConfirmed,
		ExportStatus:       ExportHeld,
		Instruments:        append([]*PaymentInstrument(nil), basket.Instruments...),
		CertificateItems:   append([]*CertificateLineItem(nil), basket.LineItems()...),
	}
}

// GiftInstruments filtra os instrumentos de certificado do pedido.
func (o *Order) GiftInstruments() []*PaymentInstrument {
	var out []*PaymentInstrument
	for _, inst := range o.Instruments {
		if inst.IsGiftCertificate() {
			out = append(out, inst)
		}
	}
	return out
}
