package result

import (
	"github.com/r3e-network/neokit/pkg/util"
)

// RelayResult is a result of `sendrawtransaction` or `submitblock` RPC calls.
type RelayResult struct {
	Hash util.Uint256 `json:"hash"`
}
