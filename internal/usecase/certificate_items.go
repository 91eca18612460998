package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/google/uuid"
)

// CertificateItemForm espelha o formulário de compra de certificado.
// Os mesmos campos valem para criação e edição (match pelo ItemID).
type CertificateItemForm struct {
	BasketID       string
	ItemID         *uuid.UUID // nil na criação, preenchido na edição
	SenderName     string
	RecipientName  string
	RecipientEmail string
	Message        string
	Amount         string // decimal em texto, como chega do formulário
}

// CertificateItemOutput devolve o item como está guardado, para
// pré-preencher o formulário de edição sem nenhum desvio (round-trip).
type CertificateItemOutput struct {
	ItemID         uuid.UUID
	SenderName     string
	RecipientName  string
	RecipientEmail string
	Message        string
	Amount         string
	Currency       string
}

// ManageCertificateItemsUseCase cuida do ciclo de vida dos itens de
// certificado na cesta: criar na submissão do formulário, editar em
// place pelo UUID, remover. O item é só um PEDIDO de compra; o
// certificado durável nasce na finalização, nunca aqui.
type ManageCertificateItemsUseCase struct {
	basketRepository gateway.BasketRepository
}

func NewManageCertificateItems(basketRepo gateway.BasketRepository) *ManageCertificateItemsUseCase {
	return &ManageCertificateItemsUseCase{basketRepository: basketRepo}
}

// Save cria (ItemID nil) ou edita em place (ItemID preenchido).
// Gravação única e simples, então não abrimos transação aqui
// (mesmo raciocínio da criação de carteira em apps desse tipo).
func (u *ManageCertificateItemsUseCase) Save(ctx context.Context, form CertificateItemForm) (*CertificateItemOutput, error) {
	basket, err := u.basketRepository.GetByID(ctx, form.BasketID)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewMoneyFromString(strings.TrimSpace(form.Amount), basket.Currency)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var item *domain.CertificateLineItem
	if form.ItemID != nil {
		// Edição: lookup O(1) pelo índice da cesta e mutação em place.
		item, err = basket.LineItemByID(*form.ItemID)
		if err != nil {
			return nil, err
		}
		item.SenderName = form.SenderName
		item.RecipientName = form.RecipientName
		item.RecipientEmail = form.RecipientEmail
		item.Message = form.Message
		item.Amount = amount
	} else {
		item = &domain.CertificateLineItem{
			ID:             uuid.New(),
			SenderName:     form.SenderName,
			RecipientName:  form.RecipientName,
			RecipientEmail: form.RecipientEmail,
			Message:        form.Message,
			Amount:         amount,
			CreatedAt:      time.Now(),
		}
		basket.AddLineItem(item)
	}

	if err := u.basketRepository.SaveLineItem(ctx, form.BasketID, item); err != nil {
		return nil, err
	}

	return toItemOutput(item), nil
}

// Get devolve o item para pré-preencher o formulário de edição.
func (u *ManageCertificateItemsUseCase) Get(ctx context.Context, basketID string, itemID uuid.UUID) (*CertificateItemOutput, error) {
	basket, err := u.basketRepository.GetByID(ctx, basketID)
	if err != nil {
		return nil, err
	}
	item, err := basket.LineItemByID(itemID)
	if err != nil {
		return nil, err
	}
	return toItemOutput(item), nil
}

// Remove apaga o item explicitamente (o outro fim de vida é a compra da cesta).
func (u *ManageCertificateItemsUseCase) Remove(ctx context.Context, basketID string, itemID uuid.UUID) error {
	basket, err := u.basketRepository.GetByID(ctx, basketID)
	if err != nil {
		return err
	}
	if err := basket.RemoveLineItem(itemID); err != nil {
		return err
	}
	return u.basketRepository.RemoveLineItem(ctx, itemID)
}

func toItemOutput(item *domain.CertificateLineItem) *CertificateItemOutput {
	return &CertificateItemOutput{
		ItemID:         item.ID,
		SenderName:     item.SenderName,
		RecipientName:  item.RecipientName,
		RecipientEmail: item.RecipientEmail,
		Message:        item.Message,
		Amount:         item.Amount.Amount.StringFixed(2),
		Currency:       item.Amount.Currency,
	}
}
