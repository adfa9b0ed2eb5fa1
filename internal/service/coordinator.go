package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/domain/installment"
	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Coordinator commits business events that span the order counter, the
// capital accounts, inventory and the transaction ledger. Every event reads
// what it needs, derives the new state and writes it in one transaction, so
// either all of its changes land or none do.
type Coordinator interface {
	NextOrderNumber(ctx context.Context) (*dto.OrderNumberResponse, error)
	RecordPurchase(ctx context.Context, req *dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error)
	RecordSale(ctx context.Context, req *dto.RecordSaleRequest) (*dto.SaleResponse, error)
	RecordEmiPayment(ctx context.Context, saleID string, req *dto.RecordEmiPaymentRequest) (*dto.SaleResponse, error)
	TransferFunds(ctx context.Context, req *dto.TransferFundsRequest) (*dto.TransactionResponse, error)
	SetAccountBalance(ctx context.Context, name types.AccountName, req *dto.SetAccountBalanceRequest) (*dto.SetAccountBalanceResponse, error)
	QueryTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error)
	GetSale(ctx context.Context, id string) (*dto.SaleResponse, error)
	GetSummary(ctx context.Context, id string) (*dto.SummaryResponse, error)
}

type coordinator struct {
	ServiceParams
	sequence SequenceService
	ledger   LedgerService
}

func NewCoordinator(params ServiceParams) Coordinator {
	return &coordinator{
		ServiceParams: params,
		sequence:      NewSequenceService(params),
		ledger:        NewLedgerService(params),
	}
}

func (s *coordinator) NextOrderNumber(ctx context.Context) (*dto.OrderNumberResponse, error) {
	return s.sequence.NextOrderNumber(ctx)
}

func (s *coordinator) QueryTransactions(ctx context.Context, filter *types.TransactionFilter) (*dto.ListTransactionsResponse, error) {
	return s.ledger.QueryTransactions(ctx, filter)
}

func (s *coordinator) RecordPurchase(ctx context.Context, req *dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp *dto.PurchaseResponse
	plan, err := s.commitEvent(ctx, types.EventPurchaseRecorded, func(ctx context.Context, plan *commitPlan) error {
		orderNumber, err := plan.issueOrderNumber(ctx)
		if err != nil {
			return err
		}

		personRef, personName := req.SellerName, req.SellerName
		if ref := lo.FromPtr(req.MiddleManRef); ref != "" {
			middleMan, err := plan.person(ctx, ref)
			if err != nil {
				return err
			}
			personRef, personName = middleMan.ID, middleMan.Name
		}

		p := req.ToPurchase(ctx, orderNumber)
		resp = &dto.PurchaseResponse{Purchase: p}

		if req.Vehicle != nil {
			if _, err := s.InventoryRepo.GetVehicleByChassis(ctx, req.Vehicle.ChassisNumber); err == nil {
				return ierr.NewError("vehicle already in inventory").
					WithHintf("A vehicle with chassis number %s already exists", req.Vehicle.ChassisNumber).
					WithReportableDetails(map[string]any{
						"chassis_number": req.Vehicle.ChassisNumber,
					}).
					Mark(ierr.ErrAlreadyExists)
			} else if !ierr.IsNotFound(err) {
				return err
			}

			summary, err := plan.summary(ctx, req.Vehicle.SummaryID, req.Vehicle.Brand, req.Vehicle.Category, true)
			if err != nil {
				return err
			}
			summary.Intake(ctx, req.Vehicle.ItemID)

			v := req.Vehicle.ToVehicle(ctx, p.ID, req.DocumentRefs)
			p.VehicleID = lo.ToPtr(v.ID)
			plan.addVehicle(v)
			resp.Vehicle = v
		}

		err = plan.applySplit(ctx, req.Payment, -1, capital.EntryMeta{
			Timestamp:     req.PurchaseDate,
			ReferenceType: types.ReferenceTypePurchase,
			ReferenceID:   p.ID,
			Description:   fmt.Sprintf("Purchase #%d from %s", orderNumber, req.SellerName),
		})
		if err != nil {
			return err
		}
		plan.addPurchase(p)

		txn := transaction.New(ctx, types.TransactionTypePurchase, req.Payment, req.PurchaseDate)
		txn.PersonRef = personRef
		txn.PersonName = personName
		txn.RelatedRef = lo.ToPtr(p.ID)
		txn.Note = fmt.Sprintf("Purchase #%d", orderNumber)
		plan.addTransaction(txn)

		if req.BrokerFee.IsPositive() && lo.FromPtr(req.MiddleManRef) != "" {
			fee := types.PaymentSplit{Cash: req.BrokerFee}
			_, err := plan.applyDelta(ctx, types.AccountCash, req.BrokerFee.Neg(), capital.EntryMeta{
				Timestamp:     req.PurchaseDate,
				ReferenceType: types.ReferenceTypeBrokerFee,
				ReferenceID:   p.ID,
				Description:   fmt.Sprintf("Broker fee for purchase #%d", orderNumber),
			})
			if err != nil {
				return err
			}

			feeTxn := transaction.New(ctx, types.TransactionTypeBrokerFee, fee, req.PurchaseDate)
			feeTxn.PersonRef = personRef
			feeTxn.PersonName = personName
			feeTxn.RelatedRef = lo.ToPtr(p.ID)
			feeTxn.Note = fmt.Sprintf("Broker fee for purchase #%d", orderNumber)
			plan.addTransaction(feeTxn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.TransactionIDs = lo.Map(plan.txns, func(t *transaction.Transaction, _ int) string { return t.ID })
	return resp, nil
}

func (s *coordinator) RecordSale(ctx context.Context, req *dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *sale.Sale
	plan, err := s.commitEvent(ctx, types.EventSaleRecorded, func(ctx context.Context, plan *commitPlan) error {
		orderNumber, err := plan.issueOrderNumber(ctx)
		if err != nil {
			return err
		}

		customer, err := plan.person(ctx, req.CustomerRef)
		if err != nil {
			return err
		}

		vehicle, err := s.InventoryRepo.GetVehicle(ctx, req.VehicleID)
		if err != nil {
			return err
		}
		summary, err := plan.summary(ctx, vehicle.SummaryID, "", "", false)
		if err != nil {
			return err
		}

		var schedule *installment.Schedule
		if req.PurchaseType == types.PurchaseTypeEMI {
			schedule, err = req.Installments.ToSchedule()
			if err != nil {
				return err
			}
		}

		created = req.ToSale(ctx, orderNumber, customer.Name, schedule)
		if err := vehicle.MarkSold(ctx, created.ID); err != nil {
			return err
		}
		if err := summary.Dispose(ctx, vehicle.ItemID); err != nil {
			return err
		}
		plan.addVehicle(vehicle)

		down := req.DownPayment.Split()
		err = plan.applySplit(ctx, down, 1, capital.EntryMeta{
			Timestamp:     req.SaleDate,
			ReferenceType: types.ReferenceTypeSale,
			ReferenceID:   created.ID,
			Description:   fmt.Sprintf("Sale #%d to %s", orderNumber, customer.Name),
		})
		if err != nil {
			return err
		}
		plan.addSale(created)

		txn := transaction.New(ctx, types.TransactionTypeSale, down, req.SaleDate)
		txn.PersonRef = customer.ID
		txn.PersonName = customer.Name
		txn.RelatedRef = lo.ToPtr(created.ID)
		txn.Note = fmt.Sprintf("Sale #%d", orderNumber)
		plan.addTransaction(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewSaleResponse(created, time.Now())
	resp.TransactionIDs = lo.Map(plan.txns, func(t *transaction.Transaction, _ int) string { return t.ID })
	return resp, nil
}

func (s *coordinator) RecordEmiPayment(ctx context.Context, saleID string, req *dto.RecordEmiPaymentRequest) (*dto.SaleResponse, error) {
	if err := validateID("sale id", saleID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *sale.Sale
	plan, err := s.commitEvent(ctx, types.EventEmiPaymentRecorded, func(ctx context.Context, plan *commitPlan) error {
		sl, err := s.SaleRepo.Get(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sl.RecordPayment(ctx, req.CashAmount, req.BankAmount, req.PaymentDate); err != nil {
			return err
		}

		paid := types.PaymentSplit{Cash: req.CashAmount, Bank: req.BankAmount}
		orderNumber := lo.ToPtr(sl.OrderNumber)
		err = plan.applySplit(ctx, paid, 1, capital.EntryMeta{
			Timestamp:     req.PaymentDate,
			OrderNumber:   orderNumber,
			ReferenceType: types.ReferenceTypeEmiPayment,
			ReferenceID:   sl.ID,
			Description: fmt.Sprintf("Installment %d/%d for sale #%d",
				sl.Schedule.PaidInstallments, sl.Schedule.TotalInstallments, sl.OrderNumber),
		})
		if err != nil {
			return err
		}
		plan.updateSale(sl)

		txn := transaction.New(ctx, types.TransactionTypeEmiPayment, paid, req.PaymentDate)
		txn.PersonRef = sl.CustomerRef
		txn.PersonName = sl.CustomerName
		txn.OrderNumber = orderNumber
		txn.RelatedRef = lo.ToPtr(sl.ID)
		txn.Note = req.Note
		plan.addTransaction(txn)

		updated = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewSaleResponse(updated, time.Now())
	resp.TransactionIDs = lo.Map(plan.txns, func(t *transaction.Transaction, _ int) string { return t.ID })
	return resp, nil
}

// transferSide is a resolved transfer endpoint
type transferSide struct {
	endpoint dto.TransferEndpoint
	name     string
}

func (s *coordinator) TransferFunds(ctx context.Context, req *dto.TransferFundsRequest) (*dto.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var txn *transaction.Transaction
	_, err := s.commitEvent(ctx, types.EventFundsTransferred, func(ctx context.Context, plan *commitPlan) error {
		txnID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION)
		meta := capital.EntryMeta{
			Timestamp:     req.Date,
			ReferenceType: types.ReferenceTypeTransfer,
			ReferenceID:   txnID,
			Description:   transferDescription(req),
		}

		from, err := s.moveFunds(ctx, plan, req.From, req.Amount.Neg(), meta)
		if err != nil {
			return err
		}
		to, err := s.moveFunds(ctx, plan, req.To, req.Amount, meta)
		if err != nil {
			return err
		}

		var split types.PaymentSplit
		for _, side := range []transferSide{from, to} {
			if side.endpoint.Kind == types.EndpointKindAccount {
				split = accountSplit(types.AccountName(side.endpoint.ID), req.Amount)
				break
			}
		}

		txn = transaction.New(ctx, types.TransactionTypeTransfer, split, req.Date)
		txn.ID = txnID
		txn.Amount = req.Amount
		txn.Note = req.Note

		// the person side names the counterparty; account-only transfers name the destination
		counterparty := to
		if from.endpoint.Kind == types.EndpointKindPerson && to.endpoint.Kind != types.EndpointKindPerson {
			counterparty = from
		}
		if from.endpoint.Kind == types.EndpointKindPerson || to.endpoint.Kind == types.EndpointKindPerson {
			txn.PaymentMethod = types.PaymentMethodPerson
		}
		txn.PersonRef = counterparty.endpoint.ID
		txn.PersonName = counterparty.name
		plan.addTransaction(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransactionResponse{Transaction: txn}, nil
}

// moveFunds applies delta to one endpoint of a transfer
func (s *coordinator) moveFunds(ctx context.Context, plan *commitPlan, e dto.TransferEndpoint, delta decimal.Decimal, meta capital.EntryMeta) (transferSide, error) {
	switch e.Kind {
	case types.EndpointKindAccount:
		name := types.AccountName(e.ID)
		if _, err := plan.applyDelta(ctx, name, delta, meta); err != nil {
			return transferSide{}, err
		}
		return transferSide{endpoint: e, name: name.String()}, nil
	default:
		p, err := plan.applyPersonDelta(ctx, e.ID, delta)
		if err != nil {
			return transferSide{}, err
		}
		return transferSide{endpoint: e, name: p.Name}, nil
	}
}

func accountSplit(name types.AccountName, amount decimal.Decimal) types.PaymentSplit {
	switch name {
	case types.AccountBank:
		return types.PaymentSplit{Bank: amount}
	case types.AccountCredit:
		return types.PaymentSplit{Credit: amount}
	default:
		return types.PaymentSplit{Cash: amount}
	}
}

func transferDescription(req *dto.TransferFundsRequest) string {
	if req.Note != "" {
		return req.Note
	}
	return fmt.Sprintf("Transfer from %s to %s", req.From.ID, req.To.ID)
}

func (s *coordinator) SetAccountBalance(ctx context.Context, name types.AccountName, req *dto.SetAccountBalanceRequest) (*dto.SetAccountBalanceResponse, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &dto.SetAccountBalanceResponse{}
	_, err := s.commitEvent(ctx, types.EventAccountBalanceSet, func(ctx context.Context, plan *commitPlan) error {
		a, err := plan.account(ctx, name)
		if err != nil {
			return err
		}
		resp.Account = &dto.AccountResponse{Account: a}

		delta := req.Balance.Sub(a.Balance)
		entry, err := plan.applyDelta(ctx, name, delta, capital.EntryMeta{
			Timestamp:     time.Now(),
			ReferenceType: types.ReferenceTypeAdjustment,
			Description:   req.Description,
			Reason:        req.Reason,
		})
		if err != nil {
			return err
		}
		if entry != nil {
			resp.Entry = &dto.EntryResponse{Entry: entry}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *coordinator) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if err := validateID("sale id", id); err != nil {
		return nil, err
	}
	sl, err := s.SaleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSaleResponse(sl, time.Now()), nil
}

func (s *coordinator) GetSummary(ctx context.Context, id string) (*dto.SummaryResponse, error) {
	if err := validateID("summary id", id); err != nil {
		return nil, err
	}
	summary, err := s.InventoryRepo.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSummaryResponse(summary), nil
}
