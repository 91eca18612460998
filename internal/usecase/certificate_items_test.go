package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/google/uuid"
)

func TestCertificateItems_CreateAndRoundTrip(t *testing.T) {
	basketRepo := newMockBasketRepo()
	basketRepo.put(testBasket(t, "100.00"))

	uc := NewManageCertificateItems(basketRepo)

	created, err := uc.Save(context.Background(), CertificateItemForm{
		BasketID:       "b-1",
		SenderName:     "Maria",
		RecipientName:  "João",
		RecipientEmail: "joao@example.com",
		Message:        "Feliz aniversário!",
		Amount:         "25.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Round-trip: o formulário de edição pré-preenche exatamente
	// com o que foi guardado, sem nenhum desvio.
	fetched, err := uc.Get(context.Background(), "b-1", created.ItemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.SenderName != "Maria" || fetched.RecipientName != "João" ||
		fetched.RecipientEmail != "joao@example.com" ||
		fetched.Message != "Feliz aniversário!" || fetched.Amount != "25.00" {
		t.Errorf("form data drifted: %+v", fetched)
	}
}

func TestCertificateItems_EditInPlace(t *testing.T) {
	basketRepo := newMockBasketRepo()
	basketRepo.put(testBasket(t, "100.00"))

	uc := NewManageCertificateItems(basketRepo)

	created, err := uc.Save(context.Background(), CertificateItemForm{
		BasketID:       "b-1",
		SenderName:     "Maria",
		RecipientName:  "João",
		RecipientEmail: "joao@example.com",
		Message:        "Oi",
		Amount:         "25.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edited, err := uc.Save(context.Background(), CertificateItemForm{
		BasketID:       "b-1",
		ItemID:         &created.ItemID,
		SenderName:     "Maria",
		RecipientName:  "João Pedro",
		RecipientEmail: "jp@example.com",
		Message:        "Oi de novo",
		Amount:         "30.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mesmo UUID, valores novos: mutação em place, não um item novo
	if edited.ItemID != created.ItemID {
		t.Error("edit must keep the item uuid")
	}
	stored := basketRepo.baskets["b-1"]
	if len(stored.LineItems()) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(stored.LineItems()))
	}
	item, _ := stored.LineItemByID(created.ItemID)
	if item.RecipientName != "João Pedro" || item.Amount.Amount.StringFixed(2) != "30.00" {
		t.Errorf("edit not persisted: %+v", item)
	}
}

func TestCertificateItems_EditUnknownUUID(t *testing.T) {
	basketRepo := newMockBasketRepo()
	basketRepo.put(testBasket(t, "100.00"))

	uc := NewManageCertificateItems(basketRepo)

	missing := uuid.New()
	_, err := uc.Save(context.Background(), CertificateItemForm{
		BasketID:      "b-1",
		ItemID:        &missing,
		RecipientName: "João",
		Amount:        "25.00",
	})
	if !errors.Is(err, domain.ErrLineItemNotFound) {
		t.Errorf("expected ErrLineItemNotFound, got %v", err)
	}
}

func TestCertificateItems_InvalidAmount(t *testing.T) {
	basketRepo := newMockBasketRepo()
	basketRepo.put(testBasket(t, "100.00"))

	uc := NewManageCertificateItems(basketRepo)

	for _, amount := range []string{"abc", "-5.00", "0"} {
		_, err := uc.Save(context.Background(), CertificateItemForm{
			BasketID:      "b-1",
			RecipientName: "João",
			Amount:        amount,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %q: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestCertificateItems_Remove(t *testing.T) {
	basketRepo := newMockBasketRepo()
	basketRepo.put(testBasket(t, "100.00"))

	uc := NewManageCertificateItems(basketRepo)

	created, err := uc.Save(context.Background(), CertificateItemForm{
		BasketID:      "b-1",
		RecipientName: "João",
		Amount:        "25.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.Remove(context.Background(), "b-1", created.ItemID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Remove(context.Background(), "b-1", created.ItemID); !errors.Is(err, domain.ErrLineItemNotFound) {
		t.Errorf("expected ErrLineItemNotFound on second removal, got %v", err)
	}
}
