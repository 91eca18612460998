package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CertificateItemHandler cuida do formulário de compra de certificado:
// criar, pré-preencher para edição, editar e remover itens da cesta.
type CertificateItemHandler struct {
	manageItemsUC *usecase.ManageCertificateItemsUseCase
}

func NewCertificateItemHandler(manageUC *usecase.ManageCertificateItemsUseCase) *CertificateItemHandler {
	return &CertificateItemHandler{manageItemsUC: manageUC}
}

type CertificateItemRequest struct {
	SenderName     string `json:"sender_name"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Message        string `json:"message"`
	Amount         string `json:"amount"` // decimal em texto ("25.00")
}

type CertificateItemResponse struct {
	ItemID         string `json:"item_id"`
	SenderName     string `json:"sender_name"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Message        string `json:"message"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
}

// Create registra um item novo na submissão do formulário.
func (h *CertificateItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")

	var req CertificateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.manageItemsUC.Save(r.Context(), usecase.CertificateItemForm{
		BasketID:       basketID,
		SenderName:     req.SenderName,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		Amount:         req.Amount,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toItemResponse(output))
}

// Get devolve o item como está guardado: o formulário de edição
// pré-preenche exatamente com esses valores (round-trip sem desvio).
func (h *CertificateItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "UUID inválido")
		return
	}

	output, err := h.manageItemsUC.Get(r.Context(), basketID, itemID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toItemResponse(output))
}

// Update edita o item em place, casando pelo UUID.
func (h *CertificateItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "UUID inválido")
		return
	}

	var req CertificateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.manageItemsUC.Save(r.Context(), usecase.CertificateItemForm{
		BasketID:       basketID,
		ItemID:         &itemID,
		SenderName:     req.SenderName,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		Amount:         req.Amount,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toItemResponse(output))
}

// Delete remove o item explicitamente.
func (h *CertificateItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	basketID := chi.URLParam(r, "basketID")
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "UUID inválido")
		return
	}

	if err := h.manageItemsUC.Remove(r.Context(), basketID, itemID); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CertificateItemHandler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBasketNotFound):
		respondError(w, http.StatusNotFound, "Cesta não encontrada")
	case errors.Is(err, domain.ErrLineItemNotFound):
		respondError(w, http.StatusNotFound, "Item de certificado não encontrado")
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "Valor inválido")
	default:
		log.Error().Err(err).Msg("Erro interno nos itens de certificado")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

func toItemResponse(output *usecase.CertificateItemOutput) CertificateItemResponse {
	return CertificateItemResponse{
		ItemID:         output.ItemID.String(),
		SenderName:     output.SenderName,
		RecipientName:  output.RecipientName,
		RecipientEmail: output.RecipientEmail,
		Message:        output.Message,
		Amount:         output.Amount,
		Currency:       output.Currency,
	}
}
