package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FraudSignal é fornecido externamente pelo serviço antifraude.
// Status "flag" segura a confirmação do pedido; qualquer outro confirma.
type FraudSignal struct {
	Status string
}

const FraudStatusFlag = "flag"

// PlaceOrderInput define os dados necessários para finalizar o pedido.
type PlaceOrderInput struct {
	BasketID    string
	OrderNumber string
	FraudSignal FraudSignal
}

// PlaceOrderOutput devolve o pedido colocado e os certificados materializados.
type PlaceOrderOutput struct {
	OrderNumber      string
	State            domain.OrderState
	CertificateCodes []string
}

// certificateIssuedEvent é o corpo publicado no RabbitMQ para o worker
// de notificação disparar o e-mail do destinatário.
type certificateIssuedEvent struct {
	CertificateCode string `json:"certificate_code"`
	OrderNumber     string `json:"order_number"`
	RecipientName   string `json:"recipient_name"`
	RecipientEmail  string `json:"recipient_email"`
	SenderName      string `json:"sender_name"`
	Message         string `json:"message"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

// PlaceOrderUseCase orquestra a finalização:
// pending -> placing -> {placed, failed}.
// Uma transação única cobre colocação do pedido, resgate dos certificados
// aplicados e materialização dos certificados comprados. Notificação fica
// FORA da transação (efeito irrevogável, falha vira warning).
type PlaceOrderUseCase struct {
	basketRepository      gateway.BasketRepository
	certificateRepository gateway.CertificateRepository
	orderManagement       gateway.OrderManagement
	transactionManager    gateway.TransactionManager // Nosso "Unit of Work"
	eventPublisher        gateway.EventPublisher
}

func NewPlaceOrder(
	basketRepo gateway.BasketRepository,
	certificateRepo gateway.CertificateRepository,
	orderMgmt gateway.OrderManagement,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		basketRepository:      basketRepo,
		certificateRepository: certificateRepo,
		orderManagement:       orderMgmt,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

// Execute roda a finalização. Nenhum commit parcial é observável: ou a cesta
// continua como estava, ou o pedido sai colocado com TODOS os certificados.
func (u *PlaceOrderUseCase) Execute(ctx context.Context, input PlaceOrderInput) (*PlaceOrderOutput, error) {
	var (
		order  *domain.Order
		issued []*domain.GiftCertificate
	)

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		basketRepoTx := u.basketRepository.WithTx(transactionObject)
		certificateRepoTx := u.certificateRepository.WithTx(transactionObject)
		orderManagementTx := u.orderManagement.WithTx(transactionObject)

		basket, err := basketRepoTx.GetByID(contextWithTx, input.BasketID)
		if err != nil {
			return err
		}

		order = domain.NewOrderFromBasket(input.OrderNumber, basket)
		order.State = domain.OrderPlacing

		status, err := orderManagementTx.Place(contextWithTx, order)
		if err != nil {
			return fmt.Errorf("falha ao colocar pedido %s: %w", order.Number, err)
		}
		if status != gateway.PlacementOK {
			return domain.ErrPlacementFailed
		}

		// Sinal de fraude segura a confirmação, mas o pedido segue para exportação.
		if input.FraudSignal.Status == FraudStatusFlag {
			order.ConfirmationStatus = domain.OrderNotConfirmed
		} else {
			order.ConfirmationStatus = domain.OrderConfirmed
		}
		order.ExportStatus = domain.ExportReady

		// Resgate efetivo dos certificados aplicados como pagamento.
		// O débito é condicional no banco (CAS): outra sessão pode estar
		// gastando o mesmo certificado neste exato momento.
		for _, inst := range order.GiftInstruments() {
			if inst.Amount.IsZero() || inst.CertificateCode == nil {
				continue
			}
			if err := certificateRepoTx.Redeem(contextWithTx, *inst.CertificateCode, inst.Amount); err != nil {
				return fmt.Errorf("falha no resgate do certificado %s: %w", *inst.CertificateCode, err)
			}
		}

		// Materialização: cada item de certificado da cesta vira um
		// certificado durável, com saldo igual ao valor do item e os
		// metadados copiados na íntegra, amarrado ao número do pedido.
		for _, item := range order.CertificateItems {
			certificate := &domain.GiftCertificate{
				Code:           newCertificateCode(),
				Balance:        item.Amount,
				Status:         domain.CertificateActive,
				SenderName:     item.SenderName,
				RecipientName:  item.RecipientName,
				RecipientEmail: item.RecipientEmail,
				Message:        item.Message,
				OrderNumber:    order.Number,
				CreatedAt:      time.Now(),
			}
			if err := certificateRepoTx.Create(contextWithTx, certificate); err != nil {
				return fmt.Errorf("falha ao materializar certificado do item %s: %w", item.ID, err)
			}
			issued = append(issued, certificate)
		}

		order.State = domain.OrderPlaced
		if err := orderManagementTx.SetStatuses(contextWithTx, order); err != nil {
			return fmt.Errorf("falha ao gravar status do pedido %s: %w", order.Number, err)
		}

		// A cesta foi convertida em pedido: destruímos na mesma transação
		// para que ela não possa ser finalizada de novo.
		if err := basketRepoTx.Consume(contextWithTx, basket.ID); err != nil {
			return fmt.Errorf("falha ao consumir a cesta %s: %w", basket.ID, err)
		}
		return nil // Sucesso! O Commit será executado agora.
	})

	if err != nil {
		// Ação compensatória: marcar o pedido como falho na sua própria
		// transação pequena. A falha original é a que volta pro chamador.
		u.failOrder(ctx, order, input)
		return nil, err
	}

	// Notificações depois do commit, uma por certificado emitido.
	// Apenas logamos falhas: o pedido continua colocado.
	u.notifyRecipients(ctx, issued)

	codes := make([]string, 0, len(issued))
	for _, c := range issued {
		codes = append(codes, c.Code)
	}

	return &PlaceOrderOutput{
		OrderNumber:      order.Number,
		State:            order.State,
		CertificateCodes: codes,
	}, nil
}

// failOrder é o tratador da transição para "failed": transação própria,
// erro dela só vai para o log (a falha original tem prioridade).
func (u *PlaceOrderUseCase) failOrder(ctx context.Context, order *domain.Order, input PlaceOrderInput) {
	if order == nil {
		order = &domain.Order{Number: input.OrderNumber, BasketID: input.BasketID}
	}
	order.State = domain.OrderFailed

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}
		return u.orderManagement.WithTx(transactionObject).Fail(contextWithTx, order)
	})
	if err != nil {
		log.Error().Err(err).Str("order_number", order.Number).Msg("Falha na ação compensatória de marcar pedido como falho")
	}
}

func (u *PlaceOrderUseCase) notifyRecipients(ctx context.Context, issued []*domain.GiftCertificate) {
	if u.eventPublisher == nil {
		return
	}
	for _, certificate := range issued {
		event := certificateIssuedEvent{
			CertificateCode: certificate.Code,
			OrderNumber:     certificate.OrderNumber,
			RecipientName:   certificate.RecipientName,
			RecipientEmail:  certificate.RecipientEmail,
			SenderName:      certificate.SenderName,
			Message:         certificate.Message,
			Amount:          certificate.Balance.Amount.StringFixed(2),
			Currency:        certificate.Balance.Currency,
		}
		// Routing Key: certificate.issued
		if err := u.eventPublisher.Publish(ctx, "checkout_events", "certificate.issued", event); err != nil {
			log.Warn().Err(err).Str("certificate_code", certificate.Code).Msg("Falha ao publicar notificação do certificado")
		}
	}
}

// newCertificateCode gera o código único do certificado.
// UUID sem hífens, maiúsculo, legível o bastante para digitar de um e-mail.
func newCertificateCode() string {
	return "GC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}
