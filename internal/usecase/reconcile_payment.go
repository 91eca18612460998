package usecase

import (
	"context"
	"fmt"

	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-CheckoutFlow-Ecommerce-Gift-Certificates/internal/gateway"
)

// ReconcilePaymentOutput indica se a cesta está pagável como está.
type ReconcilePaymentOutput struct {
	OK bool
	// OpenAmount é o que foi gravado no instrumento convencional (zero se coberto).
	OpenAmount domain.Money
}

// ReconcilePaymentUseCase recalcula e grava o valor exato devido no ÚNICO
// instrumento convencional da cesta, depois que as alocações de certificado
// mudaram. Reconciliação pura: nunca cria nem remove o instrumento, só
// ajusta o valor cobrado.
type ReconcilePaymentUseCase struct {
	basketRepository   gateway.BasketRepository
	transactionManager gateway.TransactionManager
}

func NewReconcilePayment(
	basketRepo gateway.BasketRepository,
	txManager gateway.TransactionManager,
) *ReconcilePaymentUseCase {
	return &ReconcilePaymentUseCase{
		basketRepository:   basketRepo,
		transactionManager: txManager,
	}
}

func (u *ReconcilePaymentUseCase) Execute(ctx context.Context, basketID string) (*ReconcilePaymentOutput, error) {
	var output *ReconcilePaymentOutput

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		basketRepoTx := u.basketRepository.WithTx(transactionObject)

		basket, err := basketRepoTx.GetByID(contextWithTx, basketID)
		if err != nil {
			return err
		}

		// Varremos em ordem de inserção: o PRIMEIRO não-certificado é o alvo.
		// Convencionais extras são ignorados aqui: a invariante de unicidade
		// é garantida na borda de anexação, fora deste núcleo.
		target := basket.FirstConventionalInstrument()
		redeemed := basket.RedeemedTotal()

		if target == nil {
			// Sem instrumento convencional a cesta só é pagável
			// se os certificados cobrirem o total inteiro.
			cmp, err := redeemed.Cmp(basket.TotalGrossPrice)
			if err != nil {
				return err
			}
			if cmp < 0 {
				output = &ReconcilePaymentOutput{OK: false, OpenAmount: basket.OpenBalance()}
				return nil
			}
			output = &ReconcilePaymentOutput{OK: true, OpenAmount: domain.ZeroMoney(basket.Currency)}
			return nil
		}

		openAmount, err := basket.TotalGrossPrice.Sub(redeemed)
		if err != nil {
			return err
		}
		if !openAmount.IsPositive() {
			// Coberto pelos certificados: o instrumento fica, mas cobra zero.
			openAmount = domain.ZeroMoney(basket.Currency)
		}

		// Falha na escrita aborta a transação e o valor anterior permanece.
		if err := basketRepoTx.SetInstrumentAmount(contextWithTx, target.ID, openAmount); err != nil {
			return fmt.Errorf("falha ao gravar valor do instrumento convencional: %w", err)
		}
		target.Amount = openAmount

		output = &ReconcilePaymentOutput{OK: true, OpenAmount: openAmount}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}
