package currency

import (
	"context"
	"errors"
	"testing"

	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRatesClient struct{ mock.Mock }

func (m *MockRatesClient) GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base)
	quotes, _ := args.Get(0).(map[string]decimal.Decimal)
	return quotes, args.Error(1)
}

func TestRefreshRates_AppliesSpreadAroundMid(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	usd := testUSD()
	mockRepo.On("List", mock.Anything).Return([]domain.Currency{usd}, nil).Once()
	// 1 RUB buys 0.0125 USD, so mid is 80 RUB per USD.
	mockClient.On("GetExchangeRates", mock.Anything, domain.BaseCurrencyCode).
		Return(map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.0125")}, nil).Once()

	// 100 bps spread: buy 79.2, sell 80.8.
	wantBuy, _ := decimal.NewFromString("79.2")
	wantSell, _ := decimal.NewFromString("80.8")
	mockRepo.On("UpdateRates", mock.Anything, "USD",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(wantBuy) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(wantSell) }),
	).Return(usd, nil).Once()

	err := RefreshRates(context.Background(), "exec-1", registry, mockClient, 100)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestRefreshRates_SkipsCurrenciesWithoutQuote(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	usd := testUSD()
	eur := domain.Currency{ID: 4, Code: "EUR", Name: "Euro", BuyRate: decimal.NewFromInt(99), SellRate: decimal.NewFromInt(101)}
	mockRepo.On("List", mock.Anything).Return([]domain.Currency{usd, eur}, nil).Once()
	mockClient.On("GetExchangeRates", mock.Anything, domain.BaseCurrencyCode).
		Return(map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.0125"), "GBP": decimal.RequireFromString("0.01")}, nil).Once()
	mockRepo.On("UpdateRates", mock.Anything, "USD", mock.Anything, mock.Anything).Return(usd, nil).Once()

	err := RefreshRates(context.Background(), "exec-2", registry, mockClient, 100)

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdateRates", mock.Anything, "EUR", mock.Anything, mock.Anything)
}

func TestRefreshRates_SkipsNonPositiveQuote(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	mockRepo.On("List", mock.Anything).Return([]domain.Currency{testUSD()}, nil).Once()
	mockClient.On("GetExchangeRates", mock.Anything, domain.BaseCurrencyCode).
		Return(map[string]decimal.Decimal{"USD": decimal.NewFromInt(-1)}, nil).Once()

	err := RefreshRates(context.Background(), "exec-3", registry, mockClient, 100)

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdateRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshRates_UpdateFailure_ContinuesWithOthers(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	usd := testUSD()
	eur := domain.Currency{ID: 4, Code: "EUR", Name: "Euro", BuyRate: decimal.NewFromInt(99), SellRate: decimal.NewFromInt(101)}
	mockRepo.On("List", mock.Anything).Return([]domain.Currency{usd, eur}, nil).Once()
	mockClient.On("GetExchangeRates", mock.Anything, domain.BaseCurrencyCode).
		Return(map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.0125"), "EUR": decimal.RequireFromString("0.011")}, nil).Once()
	mockRepo.On("UpdateRates", mock.Anything, "USD", mock.Anything, mock.Anything).
		Return(domain.Currency{}, errors.New("db temporarily unavailable")).Once()
	mockRepo.On("UpdateRates", mock.Anything, "EUR", mock.Anything, mock.Anything).Return(eur, nil).Once()

	err := RefreshRates(context.Background(), "exec-4", registry, mockClient, 100)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRefreshRates_NoCurrencies_SkipsFetch(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	mockRepo.On("List", mock.Anything).Return([]domain.Currency{}, nil).Once()

	err := RefreshRates(context.Background(), "exec-5", registry, mockClient, 100)

	require.NoError(t, err)
	mockClient.AssertNotCalled(t, "GetExchangeRates", mock.Anything, mock.Anything)
}

func TestRefreshRates_FetchError(t *testing.T) {
	mockRepo := new(MockCurrencyRepository)
	mockClient := new(MockRatesClient)
	registry := NewService(mockRepo, nil)

	mockRepo.On("List", mock.Anything).Return([]domain.Currency{testUSD()}, nil).Once()
	mockClient.On("GetExchangeRates", mock.Anything, domain.BaseCurrencyCode).
		Return(nil, errors.New("timeout")).Once()

	err := RefreshRates(context.Background(), "exec-6", registry, mockClient, 100)

	require.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
