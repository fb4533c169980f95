package processing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankcore/transaction-processor/internal/models"
)

var accountPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Validate checks a decoded request against the intake rules. It returns an
// empty string when the request is valid, otherwise the reason reported to
// the caller. Rules run in order and the first failure wins.
func Validate(r *models.TransactionRequest) string {
	switch {
	case r == nil:
		return "Null request"
	case strings.TrimSpace(r.TrxID) == "":
		return "Missing trxId"
	case strings.TrimSpace(r.BankID) == "":
		return "Missing bankId"
	case !accountPattern.MatchString(r.FromAccount):
		return "Invalid fromAccount"
	case !accountPattern.MatchString(r.ToAccount):
		return "Invalid toAccount"
	case r.Amount.Cmp(decimal.Zero) <= 0:
		return "Invalid amount"
	case strings.TrimSpace(r.Currency) == "":
		return "Invalid currency"
	}
	return ""
}
