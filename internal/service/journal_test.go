package service

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/testutil"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ChangeJournalServiceSuite struct {
	testutil.BaseServiceTestSuite
	coordinator Coordinator
	journal     ChangeJournalService
}

func TestChangeJournalService(t *testing.T) {
	suite.Run(t, new(ChangeJournalServiceSuite))
}

func (s *ChangeJournalServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
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
	s.journal = NewChangeJournalService(params)
}

func (s *ChangeJournalServiceSuite) TestHandleCommittedChange() {
	_, err := s.coordinator.SetAccountBalance(s.GetContext(), types.AccountCash, &dto.SetAccountBalanceRequest{
		Balance:     decimal.NewFromInt(250),
		Description: "Opening balance",
	})
	s.Require().NoError(err)

	msgs := s.GetPubSub().GetMessages(s.GetConfig().Notifications.Topic)
	s.Require().Len(msgs, 1)
	s.Equal(types.EventAccountBalanceSet.String(), msgs[0].Metadata.Get("event"))

	s.NoError(s.journal.HandleChange(msgs[0]))
}

func (s *ChangeJournalServiceSuite) TestHandleMalformedChange() {
	testCases := []struct {
		name    string
		payload string
	}{
		{name: "not_json", payload: "{"},
		{name: "missing_id", payload: `{"event":"purchase.recorded"}`},
		{name: "missing_event", payload: `{"id":"evt_1"}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			msg := message.NewMessage(s.GetUUID(), []byte(tc.payload))
			err := s.journal.HandleChange(msg)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}
