package types

import "time"

// NotificationDriver selects the transport for change notifications
type NotificationDriver string

const (
	NotificationDriverMemory NotificationDriver = "memory"
	NotificationDriverKafka  NotificationDriver = "kafka"
)

// ChangeEventName identifies the business event that committed
type ChangeEventName string

const (
	EventPurchaseRecorded   ChangeEventName = "purchase.recorded"
	EventSaleRecorded       ChangeEventName = "sale.recorded"
	EventEmiPaymentRecorded ChangeEventName = "emi_payment.recorded"
	EventFundsTransferred   ChangeEventName = "funds.transferred"
	EventAccountBalanceSet  ChangeEventName = "account.balance_set"
	EventCapitalDelta       ChangeEventName = "account.delta_applied"
	EventOrderNumberIssued  ChangeEventName = "order_number.issued"
	EventTransactionStatus  ChangeEventName = "transaction.status_updated"
	EventTransactionRecord  ChangeEventName = "transaction.recorded"
)

func (n ChangeEventName) String() string {
	return string(n)
}

// ChangeEvent is published after a successful commit so subscribers can refresh
type ChangeEvent struct {
	ID             string          `json:"id"`
	Event          ChangeEventName `json:"event"`
	OrderNumber    *int64          `json:"order_number,omitempty"`
	EntityIDs      []string        `json:"entity_ids"`
	Accounts       []AccountName   `json:"accounts,omitempty"`
	TransactionIDs []string        `json:"transaction_ids,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}
