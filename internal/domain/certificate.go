package domain

import (
	"time"
)

// CertificateStatus indica se o certificado ainda tem saldo resgatável.
type CertificateStatus string

const (
	CertificateActive   CertificateStatus = "active"
	CertificateDepleted CertificateStatus = "depleted"
)

// GiftCertificate é o registro durável de valor pré-pago.
// Criado pela autoridade de emissão na finalização de um pedido;
// o saldo só diminui por resgate contra pedidos, nunca fica negativo.
type GiftCertificate struct {
	Code           string // único, case-sensitive
	Balance        Money
	Status         CertificateStatus
	SenderName     string
	RecipientName  string
	RecipientEmail string
	Message        string
	// OrderNumber amarra o certificado ao pedido que o originou.
	OrderNumber string
	CreatedAt   time.Time
}

// Métodos de domínio (Lógica pura)

// HasSufficientBalance valida se o certificado cobre o valor antes mesmo de tocar no DB.
func (g *GiftCertificate) HasSufficientBalance(amount Money) bool {
	cmp, err := g.Balance.Cmp(amount)
	if err != nil {
		return false
	}
	return cmp >= 0
}

// RedeemableAmount é quanto deste certificado dá para aplicar num saldo em aberto:
// o menor entre o saldo do certificado e o que falta pagar, nunca negativo.
func (g *GiftCertificate) RedeemableAmount(openBalance Money) (Money, error) {
	if !openBalance.IsPositive() {
		// Pedido já coberto: ainda anexamos um instrumento de valor zero
		// para manter o rastro de que o certificado foi aplicado.
		return ZeroMoney(g.Balance.Currency), nil
	}
	return g.Balance.Min(openBalance)
}

// Redeem debita o saldo em memória. A versão atômica (condicional no banco)
// mora no repositório; esta existe para a lógica pura e os testes.
func (g *GiftCertificate) Redeem(amount Money) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !g.HasSufficientBalance(amount) {
		return ErrCertificateDepleted
	}
	newBalance, err := g.Balance.Sub(amount)
	if err != nil {
		return err
	}
	g.Balance = newBalance
	if g.Balance.IsZero() {
		g.Status = CertificateDepleted
	}
	return nil
}
