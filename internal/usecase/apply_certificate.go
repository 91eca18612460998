package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
	"github.com/google/uuid"
)

// ApplyCertificateInput define os dados para aplicar um certificado na cesta.
// Usamos DTOs (Data Transfer Objects) para não acoplar a API HTTP ao UseCase.
type ApplyCertificateInput struct {
	BasketID        string
	CertificateCode string
}

// ApplyCertificateOutput devolve o instrumento criado.
type ApplyCertificateOutput struct {
	InstrumentID    uuid.UUID
	CertificateCode string
	AmountRedeemed  domain.Money
}

// ApplyCertificateUseCase calcula quanto resgatar de um certificado
// (limitado pelo saldo dele E pelo saldo em aberto do pedido) e
// cria/substitui o instrumento correspondente na cesta.
type ApplyCertificateUseCase struct {
	basketRepository      gateway.BasketRepository
	certificateRepository gateway.CertificateRepository
	transactionManager    gateway.TransactionManager // Nosso "Unit of Work"
}

func NewApplyCertificate(
	basketRepo gateway.BasketRepository,
	certificateRepo gateway.CertificateRepository,
	txManager gateway.TransactionManager,
) *ApplyCertificateUseCase {
	return &ApplyCertificateUseCase{
		basketRepository:      basketRepo,
		certificateRepository: certificateRepo,
		transactionManager:    txManager,
	}
}

// Execute roda a lógica de negócio.
func (u *ApplyCertificateUseCase) Execute(ctx context.Context, input ApplyCertificateInput) (*ApplyCertificateOutput, error) {
	// Variável para capturar o resultado de dentro da transação
	var output *ApplyCertificateOutput

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		basketRepoTx := u.basketRepository.WithTx(transactionObject)
		certificateRepoTx := u.certificateRepository.WithTx(transactionObject)

		certificate, err := certificateRepoTx.GetByCode(contextWithTx, input.CertificateCode)
		if err != nil {
			return err
		}

		basket, err := basketRepoTx.GetByID(contextWithTx, input.BasketID)
		if err != nil {
			return err
		}

		// Reaplicação idempotente: removemos TODO instrumento já amarrado
		// a este código antes de calcular, para nunca duplicar.
		for _, existing := range basket.GiftInstruments(certificate.Code) {
			if err := basketRepoTx.RemoveInstrument(contextWithTx, existing.ID); err != nil {
				return fmt.Errorf("falha ao remover instrumento anterior do certificado %s: %w", certificate.Code, err)
			}
			basket.RemoveInstrument(existing)
		}

		// Saldo em aberto calculado com os instrumentos que SOBRARAM.
		// Se já estiver coberto, ainda anexamos um instrumento de valor zero:
		// o rastro de que o certificado foi aplicado fica, e o balanceador
		// compensa o resto (desenho em duas fases: anexa, depois balanceia).
		amountToRedeem, err := certificate.RedeemableAmount(basket.OpenBalance())
		if err != nil {
			return err
		}

		code := certificate.Code
		instrument := &domain.PaymentInstrument{
			ID:              uuid.New(),
			Kind:            domain.InstrumentGiftCertificate,
			Amount:          amountToRedeem,
			CertificateCode: &code,
			CreatedAt:       time.Now(),
		}

		if err := basketRepoTx.AddInstrument(contextWithTx, input.BasketID, instrument); err != nil {
			return fmt.Errorf("falha ao anexar instrumento do certificado %s: %w", certificate.Code, err)
		}
		basket.AddInstrument(instrument)

		output = &ApplyCertificateOutput{
			InstrumentID:    instrument.ID,
			CertificateCode: certificate.Code,
			AmountRedeemed:  amountToRedeem,
		}
		return nil // Sucesso! O Commit será executado agora.
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}

// RemoveCertificateInput identifica o certificado a desanexar da cesta.
type RemoveCertificateInput struct {
	BasketID        string
	CertificateCode string
}

// RemoveCertificateUseCase remove TODOS os instrumentos amarrados ao código
// (cobre o caso raro de duplicata por bug ou corrida antiga). No-op se não houver.
type RemoveCertificateUseCase struct {
	basketRepository   gateway.BasketRepository
	transactionManager gateway.TransactionManager
}

func NewRemoveCertificate(
	basketRepo gateway.BasketRepository,
	txManager gateway.TransactionManager,
) *RemoveCertificateUseCase {
	return &RemoveCertificateUseCase{
		basketRepository:   basketRepo,
		transactionManager: txManager,
	}
}

func (u *RemoveCertificateUseCase) Execute(ctx context.Context, input RemoveCertificateInput) error {
	return u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		basketRepoTx := u.basketRepository.WithTx(transactionObject)

		basket, err := basketRepoTx.GetByID(contextWithTx, input.BasketID)
		if err != nil {
			return err
		}

		for _, inst := range basket.GiftInstruments(input.CertificateCode) {
			if err := basketRepoTx.RemoveInstrument(contextWithTx, inst.ID); err != nil {
				return fmt.Errorf("falha ao remover instrumento do certificado %s: %w", input.CertificateCode, err)
			}
		}
		return nil
	})
}
