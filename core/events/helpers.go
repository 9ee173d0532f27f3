package events

import (
	"strconv"

	"recyclechain/crypto"
)

func addrString(b [20]byte) string {
	return crypto.NewAddress(crypto.RCYPrefix, b[:]).String()
}

func uintString(v uint64) string {
	return strconv.FormatUint(v, 10)
}
