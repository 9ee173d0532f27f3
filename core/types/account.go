package types

import "math/big"

// Account holds the token balance backing reward payouts. Rewarders fund their
// account off-ledger; the distributor moves RCY from the rewarder to payees.
type Account struct {
	Nonce      uint64   `json:"nonce"`
	BalanceRCY *big.Int `json:"balanceRCY"`
}
