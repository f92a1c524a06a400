package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for prices and balances.
const MoneyScale = 4

// FitsMoneyScale reports whether d can be stored without rounding.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

type WalletOperation string

const (
	OperationAdd      WalletOperation = "ADD"
	OperationSubtract WalletOperation = "SUBTRACT"
)

func ParseWalletOperation(s string) (WalletOperation, bool) {
	switch WalletOperation(strings.ToUpper(strings.TrimSpace(s))) {
	case OperationAdd:
		return OperationAdd, true
	case OperationSubtract:
		return OperationSubtract, true
	}
	return "", false
}

type EntryType string

const (
	EntryCredit EntryType = "CREDIT"
	EntryDebit  EntryType = "DEBIT"
)

// WalletLog is the audit row written for every committed balance change.
type WalletLog struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	ChangeAmount decimal.Decimal `json:"changeAmount"`
	EntryType    EntryType       `json:"transactionType"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Remarks      string          `json:"remarks"`
	CreatedAt    time.Time       `json:"timestamp"`
}
