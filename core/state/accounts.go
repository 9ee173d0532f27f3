package state

import (
	"bytes"
	"fmt"
	"math/big"

	"recyclechain/core/types"
)

var accountPrefix = []byte("account:")

func accountKey(addr []byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr)
	return buf
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{BalanceRCY: big.NewInt(0)}
	}
	if acc.BalanceRCY == nil {
		acc.BalanceRCY = big.NewInt(0)
	}
	return acc
}

// GetAccount loads the account stored for the provided address. Unknown
// addresses resolve to a zero-balance account.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("address must not be empty")
	}
	acc := new(types.Account)
	ok, err := m.KVGet(accountKey(addr), acc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ensureAccount(nil), nil
	}
	return ensureAccount(acc), nil
}

// PutAccount persists the account for the provided address.
func (m *Manager) PutAccount(addr []byte, acc *types.Account) error {
	if len(addr) == 0 {
		return fmt.Errorf("address must not be empty")
	}
	if acc == nil {
		return fmt.Errorf("account must not be nil")
	}
	return m.KVPut(accountKey(addr), ensureAccount(acc))
}

// Transfer moves RCY between two accounts. The sender must hold at least the
// requested amount.
func (m *Manager) Transfer(from, to []byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("transfer amount must be non-negative")
	}
	if amount.Sign() == 0 {
		return nil
	}
	if bytes.Equal(from, to) {
		// Self-transfers are a no-op; loading two copies of the same
		// account would let the second write clobber the first.
		fromAcc, err := m.GetAccount(from)
		if err != nil {
			return err
		}
		if fromAcc.BalanceRCY.Cmp(amount) < 0 {
			return fmt.Errorf("insufficient balance")
		}
		return nil
	}
	fromAcc, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if fromAcc.BalanceRCY.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance")
	}
	toAcc, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	fromAcc.BalanceRCY = new(big.Int).Sub(fromAcc.BalanceRCY, amount)
	toAcc.BalanceRCY = new(big.Int).Add(toAcc.BalanceRCY, amount)
	if err := m.PutAccount(from, fromAcc); err != nil {
		return err
	}
	return m.PutAccount(to, toAcc)
}

// Mint credits freshly issued RCY to the provided address. Used by genesis
// tooling and tests to fund rewarder accounts.
func (m *Manager) Mint(addr []byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("mint amount must be non-negative")
	}
	acc, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	acc.BalanceRCY = new(big.Int).Add(acc.BalanceRCY, amount)
	return m.PutAccount(addr, acc)
}
