package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/testutil"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/suite"
)

type CoordinatorSuite struct {
	testutil.BaseServiceTestSuite
	config      *config.Configuration
	coordinator Coordinator
	sequence    SequenceService
	capital     CapitalService
	ledger      LedgerService
	persons     PersonService
	testData    struct {
		purchaseDate time.Time
		customer     *dto.PersonResponse
		broker       *dto.PersonResponse
	}
}

func TestCoordinator(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	// each test gets its own copy so retry settings do not leak
	cfg := *s.GetConfig()
	s.config = &cfg

	s.setupService(s.GetStores())
	s.setupTestData()
}

func (s *CoordinatorSuite) setupService(stores testutil.Stores) {
	params := NewServiceParams(
		s.GetLogger(),
		s.config,
		s.GetDB(),
		stores.SequenceRepo,
		stores.CapitalRepo,
		stores.TransactionRepo,
		stores.InventoryRepo,
		stores.PurchaseRepo,
		stores.SaleRepo,
		stores.PersonRepo,
		s.GetCache(),
		s.GetPubSub(),
		s.GetSentry(),
	)

	s.coordinator = NewCoordinator(params)
	s.sequence = NewSequenceService(params)
	s.capital = NewCapitalService(params)
	s.ledger = NewLedgerService(params)
	s.persons = NewPersonService(params)
}

func (s *CoordinatorSuite) setupTestData() {
	s.testData.purchaseDate = time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)

	var err error
	s.testData.customer, err = s.persons.CreatePerson(s.GetContext(), &dto.CreatePersonRequest{
		Name: "Ravi Kumar",
		Kind: types.PersonKindCustomer,
	})
	s.Require().NoError(err)

	s.testData.broker, err = s.persons.CreatePerson(s.GetContext(), &dto.CreatePersonRequest{
		Name: "Suresh Broker",
		Kind: types.PersonKindBroker,
	})
	s.Require().NoError(err)
}

func (s *CoordinatorSuite) purchaseRequest(chassis string, split types.PaymentSplit) *dto.RecordPurchaseRequest {
	return &dto.RecordPurchaseRequest{
		SellerName:   "Anil Motors",
		TotalAmount:  split.Total(),
		Payment:      split,
		PurchaseDate: s.testData.purchaseDate,
		Vehicle: &dto.VehicleIntakeRequest{
			SummaryID:     "inv_hero_bike",
			Brand:         "Hero",
			Category:      "BIKE",
			ItemID:        "splendor",
			ChassisNumber: chassis,
			EngineNumber:  "ENG-" + chassis,
			Color:         "black",
			ModelYear:     2022,
		},
	}
}

func (s *CoordinatorSuite) balance(name types.AccountName) decimal.Decimal {
	resp, err := s.capital.GetAccount(s.GetContext(), name)
	s.Require().NoError(err)
	return resp.Balance
}

func (s *CoordinatorSuite) entries(name types.AccountName) []*dto.EntryResponse {
	resp, err := s.capital.ListEntries(s.GetContext(), name, 0)
	s.Require().NoError(err)
	return resp.Items
}

func (s *CoordinatorSuite) recordPurchase(chassis string) *dto.PurchaseResponse {
	resp, err := s.coordinator.RecordPurchase(s.GetContext(),
		s.purchaseRequest(chassis, types.PaymentSplit{Cash: decimal.NewFromInt(500), Bank: decimal.NewFromInt(1500)}))
	s.Require().NoError(err)
	return resp
}

func (s *CoordinatorSuite) emiSaleRequest(vehicleID string, firstDue time.Time) *dto.RecordSaleRequest {
	return &dto.RecordSaleRequest{
		CustomerRef:  s.testData.customer.ID,
		VehicleID:    vehicleID,
		PurchaseType: types.PurchaseTypeEMI,
		TotalAmount:  decimal.NewFromInt(7000),
		DownPayment:  dto.DownPaymentRequest{Cash: decimal.NewFromInt(1000)},
		Installments: &dto.InstallmentPlanRequest{
			InterestRate:      decimal.NewFromInt(12),
			Frequency:         types.FrequencyMonthly,
			TotalInstallments: 3,
			InstallmentAmount: decimal.NewFromInt(2000),
			FirstDueDate:      firstDue,
		},
		SaleDate: s.testData.purchaseDate.AddDate(0, 0, 5),
	}
}

func (s *CoordinatorSuite) TestRecordPurchase() {
	ctx := s.GetContext()

	next, err := s.sequence.NextOrderNumber(ctx)
	s.NoError(err)
	s.Equal(int64(0), next.OrderNumber)

	resp := s.recordPurchase("CH-001")

	s.Equal(int64(1), resp.OrderNumber)
	s.NotNil(resp.Vehicle)
	s.Equal(types.VehicleStatusInStock, resp.Vehicle.Status)
	s.Equal(resp.Vehicle.ID, lo.FromPtr(resp.VehicleID))
	s.Len(resp.TransactionIDs, 1)

	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(-500)))
	s.True(s.balance(types.AccountBank).Equal(decimal.NewFromInt(-1500)))
	s.True(s.balance(types.AccountCredit).IsZero())
	s.Empty(s.entries(types.AccountCredit))

	txn, err := s.ledger.GetTransaction(ctx, resp.TransactionIDs[0])
	s.NoError(err)
	s.Equal(types.TransactionTypePurchase, txn.Type)
	s.Equal(int64(1), lo.FromPtr(txn.OrderNumber))
	s.Equal(types.PaymentMethodMixed, txn.PaymentMethod)
	s.True(txn.Amount.Equal(decimal.NewFromInt(2000)))

	summary, err := s.coordinator.GetSummary(ctx, "inv_hero_bike")
	s.NoError(err)
	s.Equal(1, summary.Quantity("splendor"))
	s.Equal(1, summary.TotalQuantity)

	next, err = s.sequence.NextOrderNumber(ctx)
	s.NoError(err)
	s.Equal(int64(1), next.OrderNumber)

	cashEntries := s.entries(types.AccountCash)
	s.Require().Len(cashEntries, 1)
	s.Equal(int64(1), lo.FromPtr(cashEntries[0].OrderNumber))
	s.Equal(types.ReferenceTypePurchase, lo.FromPtr(cashEntries[0].ReferenceType))
}

func (s *CoordinatorSuite) TestRecordPurchaseValidation() {
	testCases := []struct {
		name    string
		mutate  func(req *dto.RecordPurchaseRequest)
		checkFn func(err error) bool
	}{
		{
			name:    "split_does_not_match_total",
			mutate:  func(req *dto.RecordPurchaseRequest) { req.TotalAmount = decimal.NewFromInt(1999) },
			checkFn: ierr.IsInvalidAmount,
		},
		{
			name:    "negative_side",
			mutate:  func(req *dto.RecordPurchaseRequest) { req.Payment.Cash = decimal.NewFromInt(-1) },
			checkFn: ierr.IsInvalidAmount,
		},
		{
			name:    "missing_seller",
			mutate:  func(req *dto.RecordPurchaseRequest) { req.SellerName = "" },
			checkFn: ierr.IsValidation,
		},
		{
			name:    "unknown_middle_man",
			mutate:  func(req *dto.RecordPurchaseRequest) { req.MiddleManRef = lo.ToPtr("per_missing") },
			checkFn: ierr.IsNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.purchaseRequest("CH-"+tc.name, types.PaymentSplit{Cash: decimal.NewFromInt(500), Bank: decimal.NewFromInt(1500)})
			tc.mutate(req)

			resp, err := s.coordinator.RecordPurchase(s.GetContext(), req)
			s.Error(err)
			s.Nil(resp)
			s.True(tc.checkFn(err), "unexpected error: %v", err)
		})
	}

	// rejected events leave no trace
	s.True(s.balance(types.AccountCash).IsZero())
	next, err := s.sequence.NextOrderNumber(s.GetContext())
	s.NoError(err)
	s.Equal(int64(0), next.OrderNumber)
}

func (s *CoordinatorSuite) TestRecordPurchaseWithBrokerFee() {
	ctx := s.GetContext()
	req := s.purchaseRequest("CH-002", types.PaymentSplit{Cash: decimal.NewFromInt(500), Bank: decimal.NewFromInt(1500)})
	req.MiddleManRef = lo.ToPtr(s.testData.broker.ID)
	req.BrokerFee = decimal.NewFromInt(100)

	resp, err := s.coordinator.RecordPurchase(ctx, req)
	s.Require().NoError(err)
	s.Len(resp.TransactionIDs, 2)

	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(-600)))
	s.Len(s.entries(types.AccountCash), 2)

	byBroker, err := s.ledger.ByPerson(ctx, s.testData.broker.ID)
	s.NoError(err)
	s.Len(byBroker.Items, 2)

	fees, err := s.ledger.ByType(ctx, types.TransactionTypeBrokerFee)
	s.NoError(err)
	s.Require().Len(fees.Items, 1)
	s.True(fees.Items[0].Amount.Equal(decimal.NewFromInt(100)))
	s.Equal(types.PaymentMethodCash, fees.Items[0].PaymentMethod)
}

func (s *CoordinatorSuite) TestRecordPurchaseDuplicateChassis() {
	s.recordPurchase("CH-003")

	_, err := s.coordinator.RecordPurchase(s.GetContext(),
		s.purchaseRequest("CH-003", types.PaymentSplit{Cash: decimal.NewFromInt(10)}))
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	summary, err := s.coordinator.GetSummary(s.GetContext(), "inv_hero_bike")
	s.NoError(err)
	s.Equal(1, summary.Quantity("splendor"))
}

func (s *CoordinatorSuite) TestAtomicityOnWriteFailure() {
	stores := s.GetStores()
	failing := testutil.NewFailingTransactionRepository(stores.TransactionRepo)
	failing.FailAfter(0)
	stores.TransactionRepo = failing
	s.setupService(stores)

	ctx := s.GetContext()
	resp, err := s.coordinator.RecordPurchase(ctx,
		s.purchaseRequest("CH-004", types.PaymentSplit{Cash: decimal.NewFromInt(500), Bank: decimal.NewFromInt(1500)}))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsStoreUnavailable(err))

	// none of the four effects is visible
	s.True(s.balance(types.AccountCash).IsZero())
	s.True(s.balance(types.AccountBank).IsZero())
	s.Empty(s.entries(types.AccountCash))

	next, err := s.sequence.NextOrderNumber(ctx)
	s.NoError(err)
	s.Equal(int64(0), next.OrderNumber)

	_, err = s.coordinator.GetSummary(ctx, "inv_hero_bike")
	s.True(ierr.IsNotFound(err))

	list, err := s.ledger.QueryTransactions(ctx, nil)
	s.NoError(err)
	s.Empty(list.Items)

	s.Empty(s.GetPubSub().GetMessages(s.config.Notifications.Topic))

	// the same event goes through once the store recovers
	failing.FailAfter(-1)
	resp, err = s.coordinator.RecordPurchase(ctx,
		s.purchaseRequest("CH-004", types.PaymentSplit{Cash: decimal.NewFromInt(500), Bank: decimal.NewFromInt(1500)}))
	s.NoError(err)
	s.Equal(int64(1), resp.OrderNumber)
}

func (s *CoordinatorSuite) TestAbandonedContextCommitsNothing() {
	ctx, cancel := context.WithCancel(s.GetContext())
	cancel()

	_, err := s.coordinator.RecordPurchase(ctx,
		s.purchaseRequest("CH-005", types.PaymentSplit{Cash: decimal.NewFromInt(500)}))
	s.ErrorIs(err, context.Canceled)

	s.True(s.balance(types.AccountCash).IsZero())
	next, err := s.sequence.NextOrderNumber(s.GetContext())
	s.NoError(err)
	s.Equal(int64(0), next.OrderNumber)
}

func (s *CoordinatorSuite) TestNextValueIsMonotonic() {
	ctx := s.GetContext()

	first, err := s.sequence.NextValue(ctx, "receipts")
	s.NoError(err)
	s.Equal(int64(1), first.Value)

	second, err := s.sequence.NextValue(ctx, "receipts")
	s.NoError(err)
	s.Equal(int64(2), second.Value)

	// independent sequences do not share values
	other, err := s.sequence.NextValue(ctx, "vouchers")
	s.NoError(err)
	s.Equal(int64(1), other.Value)

	_, err = s.sequence.NextValue(ctx, "")
	s.True(ierr.IsValidation(err))
}

func (s *CoordinatorSuite) TestNextValueConcurrentCallers() {
	s.config.Commit.MaxRetries = 200
	s.config.Commit.InitialInterval = time.Millisecond
	s.config.Commit.MaxInterval = 5 * time.Millisecond

	const calls = 24
	var (
		mu     sync.Mutex
		values []int64
	)

	p := pool.New().WithErrors().WithMaxGoroutines(6)
	for i := 0; i < calls; i++ {
		p.Go(func() error {
			resp, err := s.sequence.NextValue(s.GetContext(), "order")
			if err != nil {
				return err
			}
			mu.Lock()
			values = append(values, resp.Value)
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(p.Wait())

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	expected := lo.Map(lo.Range(calls), func(i int, _ int) int64 { return int64(i + 1) })
	s.Equal(expected, values)
}

func (s *CoordinatorSuite) TestNextValueConflictWithoutRetry() {
	s.config.Commit.MaxRetries = 0

	var (
		mu        sync.Mutex
		values    []int64
		conflicts int
	)

	p := pool.New().WithMaxGoroutines(8)
	for i := 0; i < 32; i++ {
		p.Go(func() {
			resp, err := s.sequence.NextValue(s.GetContext(), "order")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.True(ierr.IsVersionConflict(err), "unexpected error: %v", err)
				conflicts++
				return
			}
			values = append(values, resp.Value)
		})
	}
	p.Wait()

	// losers surface a conflict and never consume a value
	s.Equal(32, len(values)+conflicts)
	s.Len(lo.Uniq(values), len(values))
	s.Equal(int64(len(values)), lo.Max(values))
}

func (s *CoordinatorSuite) TestBalanceInvariant() {
	ctx := s.GetContext()

	_, err := s.coordinator.SetAccountBalance(ctx, types.AccountCash, &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(1000),
		Description: "Opening balance",
	})
	s.Require().NoError(err)

	deltas := []int64{250, -1400, 75, -10}
	for _, d := range deltas {
		_, err := s.capital.ApplyDelta(ctx, types.AccountCash, decimal.NewFromInt(d), capital.EntryMeta{
			Description: "manual",
		})
		s.Require().NoError(err)
	}

	// negative balances are allowed
	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(-85)))

	entries := s.entries(types.AccountCash)
	s.Require().Len(entries, 5)

	sum := lo.Reduce(entries, func(acc decimal.Decimal, e *dto.EntryResponse, _ int) decimal.Decimal {
		return acc.Add(e.Delta)
	}, decimal.Zero)
	s.True(sum.Equal(s.balance(types.AccountCash)))

	// newest first, each balance_after follows from the one before it
	for i := 0; i < len(entries)-1; i++ {
		s.True(entries[i].BalanceAfter.Equal(entries[i+1].BalanceAfter.Add(entries[i].Delta)))
	}

	_, err = s.capital.ApplyDelta(ctx, types.AccountCash, decimal.Zero, capital.EntryMeta{})
	s.True(ierr.IsInvalidAmount(err))

	_, err = s.capital.ApplyDelta(ctx, types.AccountName("Wallet"), decimal.NewFromInt(1), capital.EntryMeta{})
	s.True(ierr.IsInvalidAccount(err))
}

func (s *CoordinatorSuite) applyDeltasConcurrently(n int) (applied decimal.Decimal, successes int) {
	var mu sync.Mutex
	applied = decimal.Zero

	p := pool.New().WithMaxGoroutines(8)
	for i := 1; i <= n; i++ {
		delta := decimal.NewFromInt(int64(i))
		p.Go(func() {
			_, err := s.capital.ApplyDelta(s.GetContext(), types.AccountCash, delta, capital.EntryMeta{
				Description: "counter deposit",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.True(ierr.IsVersionConflict(err), "unexpected error: %v", err)
				return
			}
			applied = applied.Add(delta)
			successes++
		})
	}
	p.Wait()
	return applied, successes
}

func (s *CoordinatorSuite) TestApplyDeltaConcurrentCallers() {
	s.config.Commit.MaxRetries = 200
	s.config.Commit.InitialInterval = time.Millisecond
	s.config.Commit.MaxInterval = 5 * time.Millisecond

	applied, successes := s.applyDeltasConcurrently(40)

	s.Equal(40, successes)
	s.True(applied.Equal(decimal.NewFromInt(820)))
	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(820)))
	s.Len(s.entries(types.AccountCash), 40)
}

func (s *CoordinatorSuite) TestApplyDeltaConflictWithoutRetry() {
	s.config.Commit.MaxRetries = 0

	applied, successes := s.applyDeltasConcurrently(40)
	s.Require().Greater(successes, 0)

	// losers change nothing, winners are never lost
	s.True(s.balance(types.AccountCash).Equal(applied), "balance %s, applied %s",
		s.balance(types.AccountCash), applied)

	entries := s.entries(types.AccountCash)
	s.Len(entries, successes)
	sum := lo.Reduce(entries, func(acc decimal.Decimal, e *dto.EntryResponse, _ int) decimal.Decimal {
		return acc.Add(e.Delta)
	}, decimal.Zero)
	s.True(sum.Equal(applied))
}

func (s *CoordinatorSuite) TestRecordTransaction() {
	ctx := s.GetContext()
	customer := s.testData.customer

	txn := &transaction.Transaction{
		Type:          types.TransactionTypeTransfer,
		PersonRef:     customer.ID,
		PersonName:    customer.Name,
		Amount:        decimal.NewFromInt(300),
		PaymentMethod: types.PaymentMethodCash,
		CashAmount:    decimal.NewFromInt(300),
		Date:          s.testData.purchaseDate,
		Note:          "advance returned",
	}

	id, err := s.ledger.Record(ctx, txn)
	s.Require().NoError(err)
	s.Regexp(`^txn_`, id)

	byPerson, err := s.ledger.ByPerson(ctx, customer.ID)
	s.Require().NoError(err)
	s.Require().Len(byPerson.Items, 1)

	got := byPerson.Items[0]
	s.Equal(id, got.ID)
	s.Equal(types.TransactionStatusCompleted, got.Status)
	s.Nil(got.OrderNumber)
	s.False(got.CreatedAt.IsZero())
	s.True(got.Amount.Equal(decimal.NewFromInt(300)))

	testCases := []struct {
		name   string
		mutate func(t *transaction.Transaction)
		check  func(err error) bool
	}{
		{
			name:   "negative_amount",
			mutate: func(t *transaction.Transaction) { t.Amount = decimal.NewFromInt(-1) },
			check:  ierr.IsInvalidAmount,
		},
		{
			name:   "unknown_type",
			mutate: func(t *transaction.Transaction) { t.Type = types.TransactionType("REFUND") },
			check:  ierr.IsValidation,
		},
		{
			name:   "missing_date",
			mutate: func(t *transaction.Transaction) { t.Date = time.Time{} },
			check:  ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			bad := &transaction.Transaction{
				Type:          types.TransactionTypeTransfer,
				PersonRef:     customer.ID,
				Amount:        decimal.NewFromInt(10),
				PaymentMethod: types.PaymentMethodCash,
				CashAmount:    decimal.NewFromInt(10),
				Date:          s.testData.purchaseDate,
			}
			tc.mutate(bad)

			_, err := s.ledger.Record(ctx, bad)
			s.Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}

	// rejected transactions are never stored
	byPerson, err = s.ledger.ByPerson(ctx, customer.ID)
	s.Require().NoError(err)
	s.Len(byPerson.Items, 1)
}

func (s *CoordinatorSuite) TestSetAccountBalance() {
	ctx := s.GetContext()
	topic := s.config.Notifications.Topic

	resp, err := s.coordinator.SetAccountBalance(ctx, types.AccountBank, &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(5000),
		Description: "Bank reconciliation",
		Reason:      "statement for March",
	})
	s.Require().NoError(err)
	s.Require().NotNil(resp.Entry)
	s.True(resp.Entry.Delta.Equal(decimal.NewFromInt(5000)))
	s.Equal("statement for March", lo.FromPtr(resp.Entry.Reason))
	s.Equal(types.ReferenceTypeAdjustment, lo.FromPtr(resp.Entry.ReferenceType))
	s.Len(s.GetPubSub().GetMessages(topic), 1)

	// setting the current balance again writes nothing
	resp, err = s.coordinator.SetAccountBalance(ctx, types.AccountBank, &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(5000),
		Description: "Bank reconciliation",
	})
	s.NoError(err)
	s.Nil(resp.Entry)
	s.Len(s.entries(types.AccountBank), 1)
	s.Len(s.GetPubSub().GetMessages(topic), 1)

	_, err = s.coordinator.SetAccountBalance(ctx, types.AccountName("cash"), &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(1),
		Description: "wrong case",
	})
	s.True(ierr.IsInvalidAccount(err))
}

func (s *CoordinatorSuite) TestListAccounts() {
	s.recordPurchase("CH-006")

	resp, err := s.capital.ListAccounts(s.GetContext())
	s.NoError(err)
	s.Require().Len(resp.Items, 3)

	balances := lo.SliceToMap(resp.Items, func(a *dto.AccountResponse) (types.AccountName, decimal.Decimal) {
		return a.Name, a.Balance
	})
	s.True(balances[types.AccountCash].Equal(decimal.NewFromInt(-500)))
	s.True(balances[types.AccountBank].Equal(decimal.NewFromInt(-1500)))
	s.True(balances[types.AccountCredit].IsZero())
}

func (s *CoordinatorSuite) TestEmiSaleLifecycle() {
	ctx := s.GetContext()
	purchase := s.recordPurchase("CH-007")
	firstDue := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	sold, err := s.coordinator.RecordSale(ctx, s.emiSaleRequest(purchase.Vehicle.ID, firstDue))
	s.Require().NoError(err)
	s.Equal(int64(2), sold.OrderNumber)
	s.Equal(types.SaleStatusActive, sold.Status)
	s.Equal(3, sold.Schedule.RemainingInstallments)
	s.Len(sold.TransactionIDs, 1)

	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(500)))
	summary, err := s.coordinator.GetSummary(ctx, "inv_hero_bike")
	s.NoError(err)
	s.Equal(0, summary.Quantity("splendor"))

	cashEntries := len(s.entries(types.AccountCash))
	bankBefore := s.balance(types.AccountBank)

	// first installment paid entirely from the bank
	paid, err := s.coordinator.RecordEmiPayment(ctx, sold.ID, &dto.RecordEmiPaymentRequest{
		CashAmount:  decimal.Zero,
		BankAmount:  decimal.NewFromInt(2000),
		PaymentDate: firstDue,
	})
	s.Require().NoError(err)
	s.Equal(1, paid.Schedule.PaidInstallments)
	s.Equal(2, paid.Schedule.RemainingInstallments)
	s.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), paid.Schedule.NextDueDate)
	s.Equal(types.SaleStatusActive, paid.Status)
	s.True(s.balance(types.AccountBank).Equal(bankBefore.Add(decimal.NewFromInt(2000))))
	s.Len(s.entries(types.AccountCash), cashEntries)

	txn, err := s.ledger.GetTransaction(ctx, paid.TransactionIDs[0])
	s.NoError(err)
	s.Equal(types.TransactionTypeEmiPayment, txn.Type)
	s.Equal(sold.OrderNumber, lo.FromPtr(txn.OrderNumber))
	s.Equal(s.testData.customer.ID, txn.PersonRef)

	for i := 0; i < 2; i++ {
		paid, err = s.coordinator.RecordEmiPayment(ctx, sold.ID, &dto.RecordEmiPaymentRequest{
			CashAmount:  decimal.NewFromInt(2000),
			PaymentDate: paid.Schedule.NextDueDate,
		})
		s.Require().NoError(err)
	}
	s.Equal(3, paid.Schedule.PaidInstallments)
	s.Equal(0, paid.Schedule.RemainingInstallments)
	s.Equal(types.SaleStatusCompleted, paid.Status)
	s.False(paid.Overdue)

	// a completed schedule rejects further payments and changes nothing
	bankAfter := s.balance(types.AccountBank)
	_, err = s.coordinator.RecordEmiPayment(ctx, sold.ID, &dto.RecordEmiPaymentRequest{
		BankAmount:  decimal.NewFromInt(2000),
		PaymentDate: paid.Schedule.NextDueDate,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.True(s.balance(types.AccountBank).Equal(bankAfter))

	got, err := s.coordinator.GetSale(ctx, sold.ID)
	s.NoError(err)
	s.Equal(3, got.Schedule.PaidInstallments)
}

func (s *CoordinatorSuite) TestRecordSaleRejections() {
	ctx := s.GetContext()
	purchase := s.recordPurchase("CH-008")

	full := &dto.RecordSaleRequest{
		CustomerRef:  s.testData.customer.ID,
		VehicleID:    purchase.Vehicle.ID,
		PurchaseType: types.PurchaseTypeFull,
		TotalAmount:  decimal.NewFromInt(3000),
		DownPayment:  dto.DownPaymentRequest{Cash: decimal.NewFromInt(1000), Bank: decimal.NewFromInt(2000)},
		SaleDate:     s.testData.purchaseDate,
	}
	sold, err := s.coordinator.RecordSale(ctx, full)
	s.Require().NoError(err)
	s.Equal(types.SaleStatusCompleted, sold.Status)
	s.Nil(sold.Schedule)

	testCases := []struct {
		name    string
		mutate  func(req *dto.RecordSaleRequest)
		checkFn func(err error) bool
	}{
		{
			name:    "vehicle_already_sold",
			mutate:  func(req *dto.RecordSaleRequest) {},
			checkFn: ierr.IsInvalidOperation,
		},
		{
			name:    "unknown_vehicle",
			mutate:  func(req *dto.RecordSaleRequest) { req.VehicleID = "veh_missing" },
			checkFn: ierr.IsNotFound,
		},
		{
			name:    "unknown_customer",
			mutate:  func(req *dto.RecordSaleRequest) { req.CustomerRef = "per_missing" },
			checkFn: ierr.IsNotFound,
		},
		{
			name:    "full_sale_underpaid",
			mutate:  func(req *dto.RecordSaleRequest) { req.DownPayment.Bank = decimal.NewFromInt(1000) },
			checkFn: ierr.IsInvalidAmount,
		},
		{
			name:    "emi_without_installments",
			mutate:  func(req *dto.RecordSaleRequest) { req.PurchaseType = types.PurchaseTypeEMI },
			checkFn: ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := *full
			tc.mutate(&req)
			resp, err := s.coordinator.RecordSale(ctx, &req)
			s.Error(err)
			s.Nil(resp)
			s.True(tc.checkFn(err), "unexpected error: %v", err)
		})
	}

	_, err = s.coordinator.RecordEmiPayment(ctx, sold.ID, &dto.RecordEmiPaymentRequest{
		CashAmount:  decimal.NewFromInt(100),
		PaymentDate: s.testData.purchaseDate,
	})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.coordinator.RecordEmiPayment(ctx, "sale_missing", &dto.RecordEmiPaymentRequest{
		CashAmount:  decimal.NewFromInt(100),
		PaymentDate: s.testData.purchaseDate,
	})
	s.True(ierr.IsNotFound(err))
}

func (s *CoordinatorSuite) TestTransferFunds() {
	ctx := s.GetContext()

	_, err := s.coordinator.SetAccountBalance(ctx, types.AccountCash, &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(1000),
		Description: "Opening balance",
	})
	s.Require().NoError(err)

	// account to account
	resp, err := s.coordinator.TransferFunds(ctx, &dto.TransferFundsRequest{
		From:   dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountCash)},
		To:     dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountBank)},
		Amount: decimal.NewFromInt(400),
		Date:   s.testData.purchaseDate,
	})
	s.Require().NoError(err)
	s.Equal(types.TransactionTypeTransfer, resp.Type)
	s.Equal(string(types.AccountBank), resp.PersonRef)
	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(600)))
	s.True(s.balance(types.AccountBank).Equal(decimal.NewFromInt(400)))

	bankEntries := s.entries(types.AccountBank)
	s.Require().Len(bankEntries, 1)
	s.Equal(resp.ID, lo.FromPtr(bankEntries[0].ReferenceID))

	// account to person
	resp, err = s.coordinator.TransferFunds(ctx, &dto.TransferFundsRequest{
		From:   dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountCash)},
		To:     dto.TransferEndpoint{Kind: types.EndpointKindPerson, ID: s.testData.broker.ID},
		Amount: decimal.NewFromInt(150),
		Note:   "advance",
		Date:   s.testData.purchaseDate,
	})
	s.Require().NoError(err)
	s.Equal(types.PaymentMethodPerson, resp.PaymentMethod)
	s.Equal(s.testData.broker.ID, resp.PersonRef)
	s.True(resp.CashAmount.Equal(decimal.NewFromInt(150)))
	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(450)))

	broker, err := s.persons.GetPerson(ctx, s.testData.broker.ID)
	s.NoError(err)
	s.True(broker.Balance.Equal(decimal.NewFromInt(150)))

	// same endpoint on both sides
	_, err = s.coordinator.TransferFunds(ctx, &dto.TransferFundsRequest{
		From:   dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountCash)},
		To:     dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountCash)},
		Amount: decimal.NewFromInt(1),
		Date:   s.testData.purchaseDate,
	})
	s.True(ierr.IsInvalidOperation(err))

	// unknown person fails the whole transfer
	_, err = s.coordinator.TransferFunds(ctx, &dto.TransferFundsRequest{
		From:   dto.TransferEndpoint{Kind: types.EndpointKindAccount, ID: string(types.AccountCash)},
		To:     dto.TransferEndpoint{Kind: types.EndpointKindPerson, ID: "per_missing"},
		Amount: decimal.NewFromInt(1),
		Date:   s.testData.purchaseDate,
	})
	s.True(ierr.IsNotFound(err))
	s.True(s.balance(types.AccountCash).Equal(decimal.NewFromInt(450)))
}

func (s *CoordinatorSuite) TestQueryTransactions() {
	ctx := s.GetContext()

	for i, chassis := range []string{"CH-101", "CH-102", "CH-103"} {
		req := s.purchaseRequest(chassis, types.PaymentSplit{Cash: decimal.NewFromInt(100)})
		req.PurchaseDate = s.testData.purchaseDate.AddDate(0, 0, i*2)
		_, err := s.coordinator.RecordPurchase(ctx, req)
		s.Require().NoError(err)
	}

	first, err := s.coordinator.QueryTransactions(ctx, nil)
	s.NoError(err)
	s.Require().Len(first.Items, 3)
	for i := 0; i < len(first.Items)-1; i++ {
		s.False(first.Items[i].Date.Before(first.Items[i+1].Date))
	}

	// repeated reads return the same records in the same order
	second, err := s.coordinator.QueryTransactions(ctx, types.NewTransactionFilter())
	s.NoError(err)
	s.Equal(
		lo.Map(first.Items, func(t *dto.TransactionResponse, _ int) string { return t.ID }),
		lo.Map(second.Items, func(t *dto.TransactionResponse, _ int) string { return t.ID }),
	)

	// a bare end date covers the whole day
	byDate, err := s.ledger.ByDateRange(ctx,
		types.StartOfDay(s.testData.purchaseDate),
		types.StartOfDay(s.testData.purchaseDate.AddDate(0, 0, 2)))
	s.NoError(err)
	s.Len(byDate.Items, 2)

	// committed events invalidate cached listings
	_, err = s.coordinator.RecordPurchase(ctx, s.purchaseRequest("CH-104", types.PaymentSplit{Bank: decimal.NewFromInt(100)}))
	s.Require().NoError(err)
	third, err := s.coordinator.QueryTransactions(ctx, nil)
	s.NoError(err)
	s.Len(third.Items, 4)

	start := s.testData.purchaseDate
	_, err = s.coordinator.QueryTransactions(ctx, &types.TransactionFilter{StartDate: &start})
	s.True(ierr.IsValidation(err))
}

func (s *CoordinatorSuite) TestUpdateTransactionStatus() {
	ctx := s.GetContext()
	purchase := s.recordPurchase("CH-009")
	id := purchase.TransactionIDs[0]

	resp, err := s.ledger.UpdateStatus(ctx, id, &dto.UpdateTransactionStatusRequest{Status: types.TransactionStatusCancelled})
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusCancelled, resp.Status)

	_, err = s.ledger.UpdateStatus(ctx, id, &dto.UpdateTransactionStatusRequest{Status: types.TransactionStatusCompleted})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.ledger.UpdateStatus(ctx, "txn_missing", &dto.UpdateTransactionStatusRequest{Status: types.TransactionStatusCancelled})
	s.True(ierr.IsNotFound(err))
}

func (s *CoordinatorSuite) TestChangeNotifications() {
	ctx := s.GetContext()
	topic := s.config.Notifications.Topic

	purchase := s.recordPurchase("CH-010")

	events, err := s.GetPubSub().GetEvents(topic)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(types.EventPurchaseRecorded, events[0].Event)
	s.Equal(int64(1), lo.FromPtr(events[0].OrderNumber))
	s.Contains(events[0].EntityIDs, purchase.ID)
	s.Contains(events[0].EntityIDs, purchase.Vehicle.ID)
	s.ElementsMatch([]types.AccountName{types.AccountCash, types.AccountBank}, events[0].Accounts)
	s.Equal(purchase.TransactionIDs, events[0].TransactionIDs)

	msgs := s.GetPubSub().GetMessages(topic)
	s.Equal(types.GetRequestID(ctx), msgs[0].Metadata.Get("request_id"))

	// a failing transport never fails the event
	s.GetPubSub().SetFail(true)
	_, err = s.coordinator.RecordPurchase(ctx, s.purchaseRequest("CH-011", types.PaymentSplit{Cash: decimal.NewFromInt(1)}))
	s.NoError(err)
	s.GetPubSub().SetFail(false)
	s.Len(s.GetPubSub().GetMessages(topic), 1)

	// disabled notifications publish nothing
	s.config.Notifications.Enabled = false
	_, err = s.coordinator.RecordPurchase(ctx, s.purchaseRequest("CH-012", types.PaymentSplit{Cash: decimal.NewFromInt(1)}))
	s.NoError(err)
	s.Len(s.GetPubSub().GetMessages(topic), 1)
}

func (s *CoordinatorSuite) TestRetryOnConflict() {
	ctx := s.GetContext()
	purchase := s.recordPurchase("CH-013")
	sold, err := s.coordinator.RecordSale(ctx, s.emiSaleRequest(purchase.Vehicle.ID, s.testData.purchaseDate.AddDate(0, 1, 0)))
	s.Require().NoError(err)

	stores := s.GetStores()
	stores.SaleRepo = testutil.NewConflictingSaleRepository(stores.SaleRepo, 1)
	s.setupService(stores)

	req := &dto.RecordEmiPaymentRequest{
		BankAmount:  decimal.NewFromInt(2000),
		PaymentDate: s.testData.purchaseDate.AddDate(0, 1, 0),
	}
	bankBefore := s.balance(types.AccountBank)

	// without retries the conflict surfaces and nothing is applied
	s.config.Commit.MaxRetries = 0
	_, err = s.coordinator.RecordEmiPayment(ctx, sold.ID, req)
	s.True(ierr.IsVersionConflict(err))
	s.True(s.balance(types.AccountBank).Equal(bankBefore))

	// with a retry budget the event re-reads and commits exactly once
	stores.SaleRepo = testutil.NewConflictingSaleRepository(s.GetStores().SaleRepo, 2)
	s.setupService(stores)
	s.config.Commit.MaxRetries = 3
	s.config.Commit.InitialInterval = time.Millisecond
	s.config.Commit.MaxInterval = 2 * time.Millisecond

	paid, err := s.coordinator.RecordEmiPayment(ctx, sold.ID, req)
	s.Require().NoError(err)
	s.Equal(1, paid.Schedule.PaidInstallments)
	s.True(s.balance(types.AccountBank).Equal(bankBefore.Add(decimal.NewFromInt(2000))))

	emi, err := s.ledger.ByType(ctx, types.TransactionTypeEmiPayment)
	s.NoError(err)
	s.Len(emi.Items, 1)
}
