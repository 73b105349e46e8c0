package account

import "github.com/MrJamesThe3rd/teller/internal/money"

type balanceResponse struct {
	AccountID      string `json:"account_id"`
	Balance        int64  `json:"balance"` // cents
	BalanceDisplay string `json:"balance_display"`
}

func toBalanceResponse(accountID string, balance int64) balanceResponse {
	return balanceResponse{
		AccountID:      accountID,
		Balance:        balance,
		BalanceDisplay: money.Format(balance),
	}
}
