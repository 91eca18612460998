package domain

import (
	"github.com/shopspring/decimal"
)

// Money representa um valor monetário com moeda.
// Clean Architecture: Esta entidade não sabe o que é JSON nem SQL.
// Imutável: toda operação devolve um novo valor, nunca altera o receptor.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney cria um valor monetário a partir de um decimal.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// NewMoneyFromString é um atalho para montar valores vindos de formulários ou do banco.
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d, Currency: currency}, nil
}

// ZeroMoney devolve o zero na moeda informada.
// Útil para iniciar somatórios (fold) sobre instrumentos de pagamento.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Métodos de domínio (Lógica pura)

// Add soma dois valores. Moedas diferentes é bug de programação,
// não condição de negócio: os serviços externos de precificação
// garantem moeda única por cesta.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtrai. Pode ficar negativo de propósito: o saldo em aberto
// de um pedido coberto além do total é negativo e o chamador decide o que fazer.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Min devolve o menor dos dois valores.
func (m Money) Min(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	if m.Amount.LessThan(other.Amount) {
		return m, nil
	}
	return other, nil
}

// Cmp compara: -1 se m < other, 0 se igual, 1 se m > other.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, ErrCurrencyMismatch
	}
	return m.Amount.Cmp(other.Amount), nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Equal compara valor e moeda.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String formata para logs e mensagens ("25.00 USD").
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
