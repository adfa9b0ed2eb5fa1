package service

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/domain/capital"
	"github.com/dealerbook/dealerbook/internal/domain/inventory"
	"github.com/dealerbook/dealerbook/internal/domain/person"
	"github.com/dealerbook/dealerbook/internal/domain/purchase"
	"github.com/dealerbook/dealerbook/internal/domain/sale"
	"github.com/dealerbook/dealerbook/internal/domain/sequence"
	"github.com/dealerbook/dealerbook/internal/domain/transaction"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// commitPlan collects everything one business event reads and derives.
// Loaders only read; nothing reaches the store until write, which persists
// the plan in a fixed order inside the caller's transaction.
type commitPlan struct {
	params ServiceParams
	event  types.ChangeEventName

	counters    map[string]*sequence.Counter
	orderNumber *int64

	accounts     map[types.AccountName]*capital.Account
	accountOrder []types.AccountName

	persons     map[string]*person.Person
	personOrder []string

	summaries   map[string]*inventory.Summary
	vehicles    []*inventory.Vehicle
	purchases   []*purchase.Purchase
	newSales    []*sale.Sale
	sales       []*sale.Sale
	txns        []*transaction.Transaction
	statusTxns  []*transaction.Transaction
	entities    []string
	summaryList []string

	savedAccounts []types.AccountName
	writes        int
}

func newCommitPlan(params ServiceParams, event types.ChangeEventName) *commitPlan {
	return &commitPlan{
		params:    params,
		event:     event,
		counters:  make(map[string]*sequence.Counter),
		accounts:  make(map[types.AccountName]*capital.Account),
		persons:   make(map[string]*person.Person),
		summaries: make(map[string]*inventory.Summary),
	}
}

// nextValue reads the counter, creating it at zero when absent, and
// advances it in memory
func (p *commitPlan) nextValue(ctx context.Context, sequenceID string) (int64, error) {
	c, ok := p.counters[sequenceID]
	if !ok {
		var err error
		c, err = p.params.SequenceRepo.Get(ctx, sequenceID)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return 0, err
			}
			c = sequence.New(sequenceID, time.Now())
		}
		p.counters[sequenceID] = c
	}
	return c.Next(time.Now()), nil
}

// issueOrderNumber draws the event's order number from the shared counter
func (p *commitPlan) issueOrderNumber(ctx context.Context) (int64, error) {
	if p.orderNumber != nil {
		return *p.orderNumber, nil
	}
	n, err := p.nextValue(ctx, types.SequenceOrder)
	if err != nil {
		return 0, err
	}
	p.orderNumber = lo.ToPtr(n)
	return n, nil
}

// account loads the named account once per plan, creating it when absent
func (p *commitPlan) account(ctx context.Context, name types.AccountName) (*capital.Account, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	if a, ok := p.accounts[name]; ok {
		return a, nil
	}

	a, err := p.params.CapitalRepo.GetAccount(ctx, name)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		a = capital.NewAccount(ctx, name)
	}
	p.accounts[name] = a
	p.accountOrder = append(p.accountOrder, name)
	return a, nil
}

// applyDelta posts delta to the named account. Zero deltas are skipped.
func (p *commitPlan) applyDelta(ctx context.Context, name types.AccountName, delta decimal.Decimal, meta capital.EntryMeta) (*capital.Entry, error) {
	a, err := p.account(ctx, name)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, nil
	}
	if meta.OrderNumber == nil {
		meta.OrderNumber = p.orderNumber
	}
	return a.Apply(ctx, delta, meta), nil
}

// applySplit posts sign*amount for every non-zero side of split
func (p *commitPlan) applySplit(ctx context.Context, split types.PaymentSplit, sign int64, meta capital.EntryMeta) error {
	for _, name := range split.NonZero() {
		delta := split.Amount(name).Mul(decimal.NewFromInt(sign))
		if _, err := p.applyDelta(ctx, name, delta, meta); err != nil {
			return err
		}
	}
	return nil
}

// person loads a person once per plan
func (p *commitPlan) person(ctx context.Context, id string) (*person.Person, error) {
	if per, ok := p.persons[id]; ok {
		return per, nil
	}
	per, err := p.params.PersonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.persons[id] = per
	return per, nil
}

// applyPersonDelta adjusts a person's running balance; only persons
// adjusted this way are written
func (p *commitPlan) applyPersonDelta(ctx context.Context, id string, delta decimal.Decimal) (*person.Person, error) {
	per, err := p.person(ctx, id)
	if err != nil {
		return nil, err
	}
	per.Apply(ctx, delta)
	if !lo.Contains(p.personOrder, id) {
		p.personOrder = append(p.personOrder, id)
	}
	return per, nil
}

// summary loads an inventory summary once per plan. When create is set a
// missing summary starts empty.
func (p *commitPlan) summary(ctx context.Context, id, brand, category string, create bool) (*inventory.Summary, error) {
	if s, ok := p.summaries[id]; ok {
		return s, nil
	}
	s, err := p.params.InventoryRepo.GetSummary(ctx, id)
	if err != nil {
		if !create || !ierr.IsNotFound(err) {
			return nil, err
		}
		s = inventory.NewSummary(ctx, id, brand, category)
	}
	p.summaries[id] = s
	p.summaryList = append(p.summaryList, id)
	return s, nil
}

func (p *commitPlan) addVehicle(v *inventory.Vehicle) {
	p.vehicles = append(p.vehicles, v)
	p.entities = append(p.entities, v.ID)
}

func (p *commitPlan) addPurchase(pur *purchase.Purchase) {
	p.purchases = append(p.purchases, pur)
	p.entities = append(p.entities, pur.ID)
}

func (p *commitPlan) addSale(s *sale.Sale) {
	p.newSales = append(p.newSales, s)
	p.entities = append(p.entities, s.ID)
}

func (p *commitPlan) updateSale(s *sale.Sale) {
	p.sales = append(p.sales, s)
	p.entities = append(p.entities, s.ID)
}

func (p *commitPlan) addTransaction(t *transaction.Transaction) {
	if t.OrderNumber == nil {
		t.OrderNumber = p.orderNumber
	}
	p.txns = append(p.txns, t)
}

func (p *commitPlan) updateTransactionStatus(t *transaction.Transaction) {
	p.statusTxns = append(p.statusTxns, t)
	p.entities = append(p.entities, t.ID)
}

// write persists the plan: counters, accounts with their entries, persons,
// summaries before vehicles, records and finally transactions
func (p *commitPlan) write(ctx context.Context) error {
	for _, c := range p.counters {
		if err := p.params.SequenceRepo.Save(ctx, c); err != nil {
			return err
		}
		p.writes++
	}
	for _, name := range p.accountOrder {
		a := p.accounts[name]
		if len(a.PendingEntries()) == 0 {
			continue
		}
		if err := p.params.CapitalRepo.SaveAccount(ctx, a); err != nil {
			return err
		}
		p.savedAccounts = append(p.savedAccounts, name)
		p.writes++
	}
	for _, id := range p.personOrder {
		if err := p.params.PersonRepo.Update(ctx, p.persons[id]); err != nil {
			return err
		}
		p.writes++
	}
	for _, id := range p.summaryList {
		if err := p.params.InventoryRepo.SaveSummary(ctx, p.summaries[id]); err != nil {
			return err
		}
		p.writes++
	}
	for _, v := range p.vehicles {
		if err := p.params.InventoryRepo.SaveVehicle(ctx, v); err != nil {
			return err
		}
		p.writes++
	}
	for _, pur := range p.purchases {
		if err := p.params.PurchaseRepo.Create(ctx, pur); err != nil {
			return err
		}
		p.writes++
	}
	for _, s := range p.newSales {
		if err := p.params.SaleRepo.Create(ctx, s); err != nil {
			return err
		}
		p.writes++
	}
	for _, s := range p.sales {
		if err := p.params.SaleRepo.Update(ctx, s); err != nil {
			return err
		}
		p.writes++
	}
	for _, t := range p.txns {
		if err := p.params.TransactionRepo.Create(ctx, t); err != nil {
			return err
		}
		p.writes++
	}
	for _, t := range p.statusTxns {
		if err := p.params.TransactionRepo.UpdateStatus(ctx, t); err != nil {
			return err
		}
		p.writes++
	}
	return nil
}

// empty reports whether the event had nothing to persist
func (p *commitPlan) empty() bool {
	return p.writes == 0
}

// changeEvent describes the committed plan
func (p *commitPlan) changeEvent() *types.ChangeEvent {
	txnIDs := lo.Map(p.txns, func(t *transaction.Transaction, _ int) string {
		return t.ID
	})
	entityIDs := lo.Uniq(append(append([]string{}, p.entities...), p.personOrder...))

	return &types.ChangeEvent{
		ID:             types.GenerateUUID(),
		Event:          p.event,
		OrderNumber:    p.orderNumber,
		EntityIDs:      entityIDs,
		Accounts:       p.savedAccounts,
		TransactionIDs: txnIDs,
		Timestamp:      time.Now().UTC(),
	}
}
