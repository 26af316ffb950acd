package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountChildAccounts(ctx context.Context, workplaceID, accountID string) (int, error) {
	args := m.Called(ctx, workplaceID, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, workplaceID, accountID string) error {
	args := m.Called(ctx, workplaceID, accountID)
	return args.Error(0)
}

// --- Mock LedgerTransactionRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerTransactionRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) CountTransactionsForAccount(ctx context.Context, workplaceID, accountID string) (int, error) {
	args := m.Called(ctx, workplaceID, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	args := m.Called(ctx, workplaceID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerTransaction), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) SumAccountActivity(ctx context.Context, workplaceID, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, workplaceID, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// mockStore serves the account and ledger mocks inside and outside units of work.
// Other repositories are unused by the services under test.
type mockStore struct {
	accounts *MockAccountRepository
	ledger   *MockLedgerRepository
}

var _ portsrepo.Store = (*mockStore)(nil)

func (s *mockStore) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error { return fn(ctx, s) }
func (s *mockStore) Contacts() portsrepo.ContactRepositoryFacade             { return nil }
func (s *mockStore) Products() portsrepo.ProductRepositoryFacade             { return nil }
func (s *mockStore) Orders() portsrepo.OrderRepositoryFacade                 { return nil }
func (s *mockStore) OrderItems() portsrepo.OrderItemRepositoryFacade         { return nil }
func (s *mockStore) Invoices() portsrepo.InvoiceRepositoryFacade             { return nil }
func (s *mockStore) Payments() portsrepo.PaymentRepositoryFacade             { return nil }
func (s *mockStore) Sequences() portsrepo.SequenceRepository                 { return nil }
func (s *mockStore) Accounts() portsrepo.AccountRepositoryFacade             { return s.accounts }
func (s *mockStore) Reporting() portsrepo.ReportingRepository                { return nil }
func (s *mockStore) LedgerTransactions() portsrepo.LedgerTransactionRepositoryFacade {
	return s.ledger
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.AccountSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
	workplaceID     string
	actor           domain.Actor
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	store := &mockStore{accounts: suite.mockAccountRepo, ledger: suite.mockLedgerRepo}
	suite.service = services.NewAccountService(store)
	suite.ledgerService = services.NewLedgerService(store)
	suite.workplaceID = uuid.NewString()
	suite.actor = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleMember}
}

func (suite *AccountServiceTestSuite) account(code string, accountType domain.AccountType, isGroup bool) *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		Code:        code,
		Name:        "Account " + code,
		AccountType: accountType,
		IsGroup:     isGroup,
		Level:       1,
		IsActive:    true,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	parent := suite.account("1000", domain.Asset, true)
	req := dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset, ParentAccountID: &parent.AccountID}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, parent.AccountID).Return(parent, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1100" && a.Level == 2 && a.IsActive && a.CreatedBy == suite.actor.UserID
	})).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(2, created.Level)
	suite.Equal(parent.AccountID, *created.ParentAccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := suite.account("1000", domain.Asset, false)
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1000").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID,
		dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentMustBeGroup() {
	ctx := context.Background()
	parent := suite.account("1000", domain.Asset, false)
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, parent.AccountID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID,
		dto.CreateAccountRequest{Code: "1100", Name: "Cash", AccountType: domain.Asset, ParentAccountID: &parent.AccountID}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(context.Background(), suite.workplaceID,
		dto.CreateAccountRequest{Code: "1", Name: "X", AccountType: "BOGUS"}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Forbidden() {
	readOnly := domain.Actor{UserID: "viewer", Role: domain.RoleReadOnly}
	_, err := suite.service.CreateAccount(context.Background(), suite.workplaceID,
		dto.CreateAccountRequest{Code: "1", Name: "X", AccountType: domain.Asset}, readOnly)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_WithPostingsIsInvalidState() {
	ctx := context.Background()
	acc := suite.account("4000", domain.Revenue, false)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, acc.AccountID).Return(acc, nil).Once()
	suite.mockAccountRepo.On("CountChildAccounts", ctx, suite.workplaceID, acc.AccountID).Return(0, nil).Once()
	suite.mockLedgerRepo.On("CountTransactionsForAccount", ctx, suite.workplaceID, acc.AccountID).Return(2, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, acc.AccountID, suite.actor)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCalculateAccountBalance_UsesAccountSign() {
	ctx := context.Background()
	acc := suite.account("2000", domain.Liability, false)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, acc.AccountID).Return(acc, nil).Once()
	suite.mockLedgerRepo.On("SumAccountActivity", ctx, suite.workplaceID, acc.AccountID).
		Return(decimal.NewFromInt(100), decimal.NewFromInt(250), nil).Once()

	balance, err := suite.service.CalculateAccountBalance(ctx, suite.workplaceID, acc.AccountID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(150).Equal(balance), "got %s", balance)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_StoreFailureIsInternal() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, "a1").Return(nil, errors.New("connection reset")).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.workplaceID, "a1")
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func (suite *AccountServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	cash := suite.account("1100", domain.Asset, false)
	sales := suite.account("4000", domain.Revenue, false)
	req := dto.PostTransactionRequest{
		TransactionDate: suite.now(),
		DebitAccountID:  cash.AccountID,
		CreditAccountID: sales.AccountID,
		Amount:          decimal.NewFromInt(500),
		Description:     "Counter sale",
	}
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, cash.AccountID).Return(cash, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, sales.AccountID).Return(sales, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.LedgerTransaction")).Return(nil).Once()

	txn, err := suite.ledgerService.PostTransaction(ctx, suite.workplaceID, req, suite.actor)

	suite.Require().NoError(err)
	suite.NotEmpty(txn.TransactionID)
	suite.True(decimal.NewFromInt(500).Equal(txn.Amount))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestPostTransaction_GroupAccountRejected() {
	ctx := context.Background()
	group := suite.account("1000", domain.Asset, true)
	sales := suite.account("4000", domain.Revenue, false)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workplaceID, group.AccountID).Return(group, nil).Once()

	_, err := suite.ledgerService.PostTransaction(ctx, suite.workplaceID, dto.PostTransactionRequest{
		TransactionDate: suite.now(),
		DebitAccountID:  group.AccountID,
		CreditAccountID: sales.AccountID,
		Amount:          decimal.NewFromInt(10),
	}, suite.actor)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestPostTransaction_SameAccountRejected() {
	_, err := suite.ledgerService.PostTransaction(context.Background(), suite.workplaceID, dto.PostTransactionRequest{
		TransactionDate: suite.now(),
		DebitAccountID:  "a1",
		CreditAccountID: "a1",
		Amount:          decimal.NewFromInt(10),
	}, suite.actor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) now() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
