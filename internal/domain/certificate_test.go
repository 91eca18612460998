package domain

import (
	"errors"
	"testing"
)

func TestGiftCertificate_RedeemableAmount(t *testing.T) {
	cert := &GiftCertificate{
		Code:    "GC-AAA",
		Balance: mustMoney(t, "50.00", "USD"),
		Status:  CertificateActive,
	}

	// Limitado pelo saldo em aberto
	amount, err := cert.RedeemableAmount(mustMoney(t, "30.00", "USD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(mustMoney(t, "30.00", "USD")) {
		t.Errorf("expected 30.00, got %s", amount.String())
	}

	// Limitado pelo saldo do certificado
	amount, err = cert.RedeemableAmount(mustMoney(t, "80.00", "USD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(mustMoney(t, "50.00", "USD")) {
		t.Errorf("expected 50.00, got %s", amount.String())
	}

	// Pedido já coberto: resgate zero, nunca negativo
	amount, err = cert.RedeemableAmount(mustMoney(t, "-5.00", "USD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.IsZero() {
		t.Errorf("expected zero for covered order, got %s", amount.String())
	}
}

func TestGiftCertificate_Redeem(t *testing.T) {
	cert := &GiftCertificate{
		Code:    "GC-AAA",
		Balance: mustMoney(t, "50.00", "USD"),
		Status:  CertificateActive,
	}

	if err := cert.Redeem(mustMoney(t, "20.00", "USD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cert.Balance.Equal(mustMoney(t, "30.00", "USD")) {
		t.Errorf("expected balance 30.00, got %s", cert.Balance.String())
	}
	if cert.Status != CertificateActive {
		t.Errorf("expected active status, got %s", cert.Status)
	}

	// Saldo insuficiente: nada muda
	if err := cert.Redeem(mustMoney(t, "40.00", "USD")); !errors.Is(err, ErrCertificateDepleted) {
		t.Errorf("expected ErrCertificateDepleted, got %v", err)
	}
	if !cert.Balance.Equal(mustMoney(t, "30.00", "USD")) {
		t.Errorf("balance changed on failed redeem: %s", cert.Balance.String())
	}

	// Zerar o saldo marca como depleted
	if err := cert.Redeem(mustMoney(t, "30.00", "USD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.Status != CertificateDepleted {
		t.Errorf("expected depleted status, got %s", cert.Status)
	}
}
