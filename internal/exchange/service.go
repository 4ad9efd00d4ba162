package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exchpoint/internal/adapters"
	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOperationTypeInvalid = errors.New("operation type must be CLIENT_SELLS_TO_EXCHANGE or CLIENT_BUYS_FROM_EXCHANGE")
	ErrAmountNotPositive    = errors.New("amount must be a positive decimal")
	ErrBaseCurrencyTrade    = errors.New("operations in the base settlement currency are not allowed")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// Attempts to mint a unique receipt reference before giving up.
	receiptMintAttempts = 3
)

// Service is the operation ledger: it prices, limit-checks and records
// exchange operations, and resolves their receipts.
type Service struct {
	clients    adapters.ClientRepository
	currencies adapters.CurrencyRepository
	operations adapters.OperationRepository
	limits     adapters.LimitRepository
	tx         adapters.TxManager
	now        func() time.Time
}

// CreateOperation prices the request against the currency's current rates and
// persists it. The limit check and the insert happen in one transaction under
// a row lock on the client, so concurrent requests cannot jointly slip past
// the daily limit.
func (s *Service) CreateOperation(ctx context.Context, clientID, currencyID int64, opType domain.OperationType, amount decimal.Decimal) (domain.OperationRecord, error) {
	if !opType.Valid() {
		return domain.OperationRecord{}, ErrOperationTypeInvalid
	}
	if !amount.IsPositive() {
		return domain.OperationRecord{}, ErrAmountNotPositive
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return domain.OperationRecord{}, err
	}

	currency, err := s.currencies.GetByID(ctx, currencyID)
	if err != nil {
		return domain.OperationRecord{}, err
	}
	if currency.Code == domain.BaseCurrencyCode {
		return domain.OperationRecord{}, ErrBaseCurrencyTrade
	}

	var amountCurrency, amountRub, effectiveRate decimal.Decimal
	switch opType {
	case domain.ClientSellsToExchange:
		// Client hands over currency; the exchange buys it at the buy rate.
		amountCurrency = amount.Round(domain.AmountScale)
		effectiveRate = currency.BuyRate
		amountRub = amountCurrency.Mul(effectiveRate).Round(domain.AmountScale)
	case domain.ClientBuysFromExchange:
		// Client hands over RUB; the exchange sells currency at the sell rate.
		amountRub = amount.Round(domain.AmountScale)
		effectiveRate = currency.SellRate
		amountCurrency = amountRub.DivRound(effectiveRate, domain.AmountScale)
	}

	var created domain.Operation
	for attempt := 1; ; attempt++ {
		reference := newReceiptReference()
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.clients.LockByID(ctx, clientID); err != nil {
				return err
			}

			single, err := s.limits.Get(ctx, domain.LimitSingleOperationAmount)
			if err != nil {
				return err
			}
			daily, err := s.limits.Get(ctx, domain.LimitDailyCurrencyVolume)
			if err != nil {
				return err
			}
			todayVolume, err := s.operations.DailyVolume(ctx, clientID, currencyID, s.now())
			if err != nil {
				return err
			}
			if err := CheckLimits(single, daily, amountCurrency, todayVolume); err != nil {
				return err
			}

			created, err = s.operations.Create(ctx, domain.Operation{
				ClientID:         clientID,
				CurrencyID:       currencyID,
				OperationType:    opType,
				AmountCurrency:   amountCurrency,
				AmountRub:        amountRub,
				EffectiveRate:    effectiveRate,
				ReceiptReference: reference,
			})
			return err
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrReceiptReferenceTaken) {
			return domain.OperationRecord{}, err
		}
		if attempt >= receiptMintAttempts {
			return domain.OperationRecord{}, fmt.Errorf("minting receipt reference: %w", err)
		}
		logrus.WithFields(logrus.Fields{"reference": reference, "attempt": attempt}).
			Warn("receipt reference collision, retrying")
	}

	return domain.OperationRecord{
		Operation:            created,
		ClientName:           client.FullName,
		ClientPassportNumber: client.PassportNumber,
		CurrencyCode:         currency.Code,
		CurrencyName:         currency.Name,
	}, nil
}

// CancelOperation marks the operation cancelled. The stored amounts and rate
// are kept as computed at creation time.
func (s *Service) CancelOperation(ctx context.Context, id int64) (domain.OperationRecord, error) {
	if err := s.operations.Cancel(ctx, id); err != nil {
		return domain.OperationRecord{}, err
	}
	return s.operations.GetByID(ctx, id)
}

func (s *Service) GetOperation(ctx context.Context, id int64) (domain.OperationRecord, error) {
	return s.operations.GetByID(ctx, id)
}

// GetReceipt resolves a receipt reference to its operation.
func (s *Service) GetReceipt(ctx context.Context, reference string) (domain.OperationRecord, error) {
	return s.operations.GetByReference(ctx, reference)
}

// ListOperations returns a page of operations, newest first. Page numbers
// start at 1; pageSize defaults to 10 and is capped at 100.
func (s *Service) ListOperations(ctx context.Context, page, pageSize int32) ([]domain.OperationRecord, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.operations.List(ctx, pageSize, (page-1)*pageSize)
}

func NewService(
	clients adapters.ClientRepository,
	currencies adapters.CurrencyRepository,
	operations adapters.OperationRepository,
	limits adapters.LimitRepository,
	tx adapters.TxManager,
) *Service {
	return &Service{
		clients:    clients,
		currencies: currencies,
		operations: operations,
		limits:     limits,
		tx:         tx,
		now:        time.Now,
	}
}
