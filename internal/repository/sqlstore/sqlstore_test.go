package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/dealerbook/dealerbook/internal/domain/sequence"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SQLStoreSuite struct {
	suite.Suite
	ctx       context.Context
	db        *database.DB
	counters  sequence.Repository
	capital   capital.Repository
	txns      transaction.Repository
	inventory inventory.Repository
}

func TestSQLStore(t *testing.T) {
	suite.Run(t, new(SQLStoreSuite))
}

func (s *SQLStoreSuite) SetupTest() {
	log := logger.NewNopLogger()
	s.ctx = types.SetUserID(context.Background(), "user_1")

	db, err := database.OpenSQLiteMemory(s.ctx, log)
	s.Require().NoError(err)
	s.db = db

	s.counters = NewSequenceRepository(db, log)
	s.capital = NewCapitalRepository(db, log)
	s.txns = NewTransactionRepository(db, log)
	s.inventory = NewInventoryRepository(db, log)
}

func (s *SQLStoreSuite) TearDownTest() {
	s.db.Close()
}

func (s *SQLStoreSuite) TestSequenceVersioning() {
	c := sequence.New("order", time.Now())
	c.Next(time.Now())
	s.Require().NoError(s.counters.Save(s.ctx, c))

	stale, err := s.counters.Get(s.ctx, "order")
	s.Require().NoError(err)
	s.Equal(int64(1), stale.Value)
	s.Equal(int64(1), stale.Version)

	c.Next(time.Now())
	s.Require().NoError(s.counters.Save(s.ctx, c))
	s.Equal(int64(2), c.Version)

	stale.Next(time.Now())
	err = s.counters.Save(s.ctx, stale)
	s.True(ierr.IsVersionConflict(err))

	// concurrent first writers collide on the primary key
	err = s.counters.Save(s.ctx, sequence.New("order", time.Now()))
	s.True(ierr.IsVersionConflict(err))

	_, err = s.counters.Get(s.ctx, "missing")
	s.True(ierr.IsNotFound(err))
}

func (s *SQLStoreSuite) TestWithTxRollsBack() {
	injected := ierr.NewError("boom").Mark(ierr.ErrSystem)

	err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
		a := capital.NewAccount(ctx, types.AccountCash)
		a.Apply(ctx, decimal.NewFromInt(500), capital.EntryMeta{Description: "opening"})
		if err := s.capital.SaveAccount(ctx, a); err != nil {
			return err
		}

		// nested units join the outer transaction
		return s.db.WithTx(ctx, func(ctx context.Context) error {
			if err := s.counters.Save(ctx, sequence.New("order", time.Now())); err != nil {
				return err
			}
			return injected
		})
	})
	s.ErrorIs(err, injected)

	_, err = s.capital.GetAccount(s.ctx, types.AccountCash)
	s.True(ierr.IsNotFound(err))
	_, err = s.counters.Get(s.ctx, "order")
	s.True(ierr.IsNotFound(err))

	entries, err := s.capital.ListEntries(s.ctx, types.AccountCash, 0)
	s.NoError(err)
	s.Empty(entries)
}

func (s *SQLStoreSuite) TestCapitalAccount() {
	at := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)

	err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
		a := capital.NewAccount(ctx, types.AccountBank)
		a.Apply(ctx, decimal.NewFromInt(-1500), capital.EntryMeta{
			Timestamp:     at,
			OrderNumber:   lo.ToPtr(int64(1)),
			ReferenceType: types.ReferenceTypePurchase,
			ReferenceID:   "pur_1",
			Description:   "Purchase #1",
		})
		return s.capital.SaveAccount(ctx, a)
	})
	s.Require().NoError(err)

	a, err := s.capital.GetAccount(s.ctx, types.AccountBank)
	s.Require().NoError(err)
	s.True(a.Balance.Equal(decimal.NewFromInt(-1500)))
	s.Equal(int64(1), a.Version)

	a.Apply(s.ctx, decimal.NewFromInt(2000), capital.EntryMeta{
		Timestamp:   at.Add(time.Hour),
		Description: "EMI",
		Reason:      "installment 1",
	})
	s.Require().NoError(s.capital.SaveAccount(s.ctx, a))
	s.Equal(int64(2), a.Version)

	entries, err := s.capital.ListEntries(s.ctx, types.AccountBank, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.True(entries[0].BalanceAfter.Equal(decimal.NewFromInt(500)))
	s.Equal("installment 1", lo.FromPtr(entries[0].Reason))
	s.Equal(int64(1), lo.FromPtr(entries[1].OrderNumber))
	s.Equal(types.ReferenceTypePurchase, lo.FromPtr(entries[1].ReferenceType))

	accounts, err := s.capital.ListAccounts(s.ctx)
	s.NoError(err)
	s.Len(accounts, 1)
}

func (s *SQLStoreSuite) TestVehicleChassisIsUnique() {
	summary := inventory.NewSummary(s.ctx, "inv_hero_bike", "Hero", "BIKE")
	summary.Intake(s.ctx, "splendor")
	s.Require().NoError(s.inventory.SaveSummary(s.ctx, summary))

	newVehicle := func(id string) *inventory.Vehicle {
		return &inventory.Vehicle{
			ID:            id,
			SummaryID:     summary.ID,
			ItemID:        "splendor",
			ChassisNumber: "CH-001",
			PurchaseID:    "pur_1",
			Status:        types.VehicleStatusInStock,
			BaseModel:     types.GetDefaultBaseModel(s.ctx),
		}
	}

	s.Require().NoError(s.inventory.SaveVehicle(s.ctx, newVehicle("veh_1")))

	got, err := s.inventory.GetVehicleByChassis(s.ctx, "CH-001")
	s.Require().NoError(err)
	s.Equal("veh_1", got.ID)

	err = s.inventory.SaveVehicle(s.ctx, newVehicle("veh_2"))
	s.True(ierr.IsVersionConflict(err))

	stored, err := s.inventory.GetSummary(s.ctx, summary.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Quantity("splendor"))
}

func (s *SQLStoreSuite) TestTransactionList() {
	day := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)
	for i, txType := range []types.TransactionType{types.TransactionTypePurchase, types.TransactionTypeSale, types.TransactionTypeSale} {
		txn := transaction.New(s.ctx, txType, types.PaymentSplit{Cash: decimal.NewFromInt(100)}, day.AddDate(0, 0, i))
		txn.PersonRef = "per_1"
		s.Require().NoError(s.txns.Create(s.ctx, txn))
	}

	all, err := s.txns.List(s.ctx, types.NewTransactionFilter())
	s.NoError(err)
	s.Len(all, 3)

	sales, err := s.txns.List(s.ctx, &types.TransactionFilter{Type: lo.ToPtr(types.TransactionTypeSale)})
	s.NoError(err)
	s.Len(sales, 2)

	start, end := types.StartOfDay(day), types.EndOfDay(day)
	ranged, err := s.txns.List(s.ctx, &types.TransactionFilter{StartDate: &start, EndDate: &end})
	s.NoError(err)
	s.Require().Len(ranged, 1)
	s.Equal(types.TransactionTypePurchase, ranged[0].Type)

	// status updates are versioned
	txn := ranged[0]
	s.Require().NoError(txn.TransitionTo(s.ctx, types.TransactionStatusCancelled))
	s.Require().NoError(s.txns.UpdateStatus(s.ctx, txn))

	stale, err := s.txns.Get(s.ctx, txn.ID)
	s.Require().NoError(err)
	s.Equal(types.TransactionStatusCancelled, stale.Status)
	stale.Version = 1
	s.True(ierr.IsVersionConflict(s.txns.UpdateStatus(s.ctx, stale)))
}

func (s *SQLStoreSuite) TestTransactionListLenient() {
	good := transaction.New(s.ctx, types.TransactionTypePurchase, types.PaymentSplit{Bank: decimal.NewFromInt(100)}, time.Now())
	s.Require().NoError(s.txns.Create(s.ctx, good))

	now := time.Now().UTC()
	_, err := s.db.ExecContext(s.ctx, `
		INSERT INTO person_transactions (id, type, amount, payment_method, date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"txn_broken", "REFUND", "10", "CASH", now, "COMPLETED", now, now)
	s.Require().NoError(err)

	_, err = s.txns.List(s.ctx, types.NewTransactionFilter())
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrDatabase))

	txns, err := s.txns.List(s.ctx, &types.TransactionFilter{Mode: types.ReadModeLenient})
	s.NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(good.ID, txns[0].ID)
}
