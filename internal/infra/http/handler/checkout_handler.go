package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CheckoutHandler expõe as operações de pagamento e finalização via HTTP
type CheckoutHandler struct {
	applyCertificateUC  *usecase.ApplyCertificateUseCase
	removeCertificateUC *usecase.RemoveCertificateUseCase
	reconcilePaymentUC  *usecase.ReconcilePaymentUseCase
	placeOrderUC        *usecase.PlaceOrderUseCase
}

// NewCheckoutHandler cria uma nova instância
func NewCheckoutHandler(
	applyUC *usecase.ApplyCertificateUseCase,
	removeUC *usecase.RemoveCertificateUseCase,
	reconcileUC *usecase.ReconcilePaymentUseCase,
	placeUC *usecase.PlaceOrderUseCase,
) *CheckoutHandler {
	return &CheckoutHandler{
		applyCertificateUC:  applyUC,
		removeCertificateUC: removeUC,
		reconcilePaymentUC:  reconcileUC,
		placeOrderUC:        placeUC,
	}
}

// DTOs (Data Transfer Objects) para Request/Response
// Usamos tags JSON para mapear snake_case (padrão de APIs)
type ApplyCertificateRequest struct {
	CertificateCode string `json:"certificate_code"`
}

type ApplyCertificateResponse struct {
	InstrumentID   string `json:"instrument_id"`
	AmountRedeemed string `json:"amount_redeemed"`
	Currency       string `json:"currency"`
	PayableAsIs    bool   `json:"payable_as_is"`
}

type PlaceOrderRequest struct {
	FraudStatus string `json:"fraud_status"`
}

type PlaceOrderResponse struct {
	OrderNumber      string   `json:"order_number"`
	State            string   `json:"state"`
	CertificateCodes []string `json:"certificate_codes"`
}

// ApplyCertificate aplica um certificado na cesta e reconcilia o
// instrumento convencional em seguida (anexa, depois balanceia).
func (h *CheckoutHandler) ApplyCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	basketID := chi.URLParam(r, "basketID")

	var req ApplyCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.applyCertificateUC.Execute(ctx, usecase.ApplyCertificateInput{
		BasketID:        basketID,
		CertificateCode: req.CertificateCode,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	reconciled, err := h.reconcilePaymentUC.Execute(ctx, basketID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ApplyCertificateResponse{
		InstrumentID:   output.InstrumentID.String(),
		AmountRedeemed: output.AmountRedeemed.Amount.StringFixed(2),
		Currency:       output.AmountRedeemed.Currency,
		PayableAsIs:    reconciled.OK,
	})
}

// RemoveCertificate desanexa todos os instrumentos do código e reconcilia.
func (h *CheckoutHandler) RemoveCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	basketID := chi.URLParam(r, "basketID")
	code := chi.URLParam(r, "code")

	err := h.removeCertificateUC.Execute(ctx, usecase.RemoveCertificateInput{
		BasketID:        basketID,
		CertificateCode: code,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	if _, err := h.reconcilePaymentUC.Execute(ctx, basketID); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PlaceOrder reconcilia uma última vez e finaliza o pedido.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	basketID := chi.URLParam(r, "basketID")

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	reconciled, err := h.reconcilePaymentUC.Execute(ctx, basketID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	if !reconciled.OK {
		// Sem instrumento convencional e certificados não cobrem o total:
		// o shopper precisa adicionar uma forma de pagamento.
		h.respondDomainError(w, domain.ErrInsufficientCoverage)
		return
	}

	output, err := h.placeOrderUC.Execute(ctx, usecase.PlaceOrderInput{
		BasketID:    basketID,
		OrderNumber: newOrderNumber(),
		FraudSignal: usecase.FraudSignal{Status: req.FraudStatus},
	})
	if err != nil {
		// O chamador decide a mensagem; detalhe da colocação não vaza.
		if errors.Is(err, domain.ErrPlacementFailed) {
			respondError(w, http.StatusUnprocessableEntity, "Não foi possível finalizar o pedido")
			return
		}
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponse{
		OrderNumber:      output.OrderNumber,
		State:            string(output.State),
		CertificateCodes: output.CertificateCodes,
	})
}

// Mapeamento de Erros de Domínio -> HTTP Status Code
func (h *CheckoutHandler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBasketNotFound):
		respondError(w, http.StatusNotFound, "Cesta não encontrada")
	case errors.Is(err, domain.ErrCertificateNotFound):
		respondError(w, http.StatusNotFound, "Certificado não encontrado")
	case errors.Is(err, domain.ErrCertificateDepleted):
		respondError(w, http.StatusUnprocessableEntity, "Certificado sem saldo")
	case errors.Is(err, domain.ErrInsufficientCoverage):
		respondError(w, http.StatusUnprocessableEntity, "Adicione uma forma de pagamento para cobrir o pedido")
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "Valor inválido")
	default:
		// Erro interno (banco caiu, bug, etc)
		log.Error().Err(err).Msg("Erro interno no checkout")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// newOrderNumber gera o número do pedido que vai no e-mail. 16 caracteres
// hexadecimais (64 bits) para que colisão entre pedidos não seja um risco real.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
