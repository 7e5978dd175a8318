package rpcclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/config/netmode"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/neorpc"
	"github.com/r3e-network/neokit/pkg/neorpc/result"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
)

const versionCacheKey = "version"

// CalculateNetworkFee calculates network fee for the transaction. The transaction may
// have empty witnesses for contract signers and may have only verification scripts
// filled for standard sig/multisig signers.
func (c *Client) CalculateNetworkFee(ctx context.Context, tx *transaction.Transaction) (int64, error) {
	var (
		params = []any{tx.Bytes()}
		resp   = new(result.NetworkFee)
	)
	if err := c.performRequest(ctx, "calculatenetworkfee", params, resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// GetBlockCount returns the number of blocks in the main chain.
func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	var resp uint32
	if err := c.performRequest(ctx, "getblockcount", nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// GetCommittee returns the current public keys of NEO nodes in the committee.
func (c *Client) GetCommittee(ctx context.Context) (keys.PublicKeys, error) {
	var resp = new(keys.PublicKeys)

	if err := c.performRequest(ctx, "getcommittee", nil, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// GetVersion returns the version information about the queried node. The
// result is cached until InvalidateCache is called, it must not be modified.
func (c *Client) GetVersion(ctx context.Context) (*result.Version, error) {
	if v, ok := c.cache.Get(versionCacheKey); ok {
		return v.(*result.Version), nil
	}
	var resp = &result.Version{}
	if err := c.performRequest(ctx, "getversion", nil, resp); err != nil {
		return nil, err
	}
	c.cache.Add(versionCacheKey, resp)
	return resp, nil
}

// GetNetwork returns the network magic of the RPC node the client is connected to.
func (c *Client) GetNetwork(ctx context.Context) (netmode.Magic, error) {
	v, err := c.GetVersion(ctx)
	if err != nil {
		return 0, err
	}
	return v.Protocol.Network, nil
}

// GetTransactionHeight returns the block index where the transaction is found.
func (c *Client) GetTransactionHeight(ctx context.Context, hash util.Uint256) (uint32, error) {
	var (
		params = []any{hash.StringLE()}
		resp   uint32
	)
	if err := c.performRequest(ctx, "gettransactionheight", params, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// InvokeScript returns the result of the given script after running it through the VM.
// NOTE: This is a test invoke and will not affect the blockchain.
func (c *Client) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	var p = []any{script}
	if len(signers) != 0 {
		p = append(p, neorpc.NewSignersWithWitnesses(signers, nil))
	}
	resp := new(result.Invoke)
	if err := c.performRequest(ctx, "invokescript", p, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendRawTransaction broadcasts the given transaction to the Neo network.
// It always returns transaction hash, when successful (no error) this is the
// hash returned from server, when not it's a locally calculated rawTX hash.
func (c *Client) SendRawTransaction(ctx context.Context, rawTX *transaction.Transaction) (util.Uint256, error) {
	var (
		params = []any{rawTX.Bytes()}
		resp   = new(result.RelayResult)
	)
	if err := c.performRequest(ctx, "sendrawtransaction", params, resp); err != nil {
		return rawTX.Hash(), err
	}
	return resp.Hash, nil
}

// NEP17BalanceOf returns the balance of the given account for the NEP-17
// token. Balances are never cached.
func (c *Client) NEP17BalanceOf(ctx context.Context, token util.Uint160, acc util.Uint160) (*big.Int, error) {
	res, err := c.invokeTokenMethod(ctx, token, "balanceOf", acc)
	if err != nil {
		return nil, err
	}
	return res.TopIntFromStack()
}

// NEP17Decimals returns the number of decimals of the NEP-17 token. The
// result is cached until InvalidateCache is called.
func (c *Client) NEP17Decimals(ctx context.Context, token util.Uint160) (int, error) {
	key := "decimals:" + token.StringLE()
	if v, ok := c.cache.Get(key); ok {
		return v.(int), nil
	}
	res, err := c.invokeTokenMethod(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	d, err := res.TopIntFromStack()
	if err != nil {
		return 0, err
	}
	if !d.IsInt64() || d.Sign() < 0 || d.Int64() > 0xff {
		return 0, fmt.Errorf("%w: invalid decimals %s", result.ErrUnexpectedStackItem, d)
	}
	c.cache.Add(key, int(d.Int64()))
	return int(d.Int64()), nil
}

// NEP17Symbol returns the symbol of the NEP-17 token. The result is cached
// until InvalidateCache is called.
func (c *Client) NEP17Symbol(ctx context.Context, token util.Uint160) (string, error) {
	key := "symbol:" + token.StringLE()
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}
	res, err := c.invokeTokenMethod(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	b, err := res.TopBytesFromStack()
	if err != nil {
		return "", err
	}
	c.cache.Add(key, string(b))
	return string(b), nil
}

func (c *Client) invokeTokenMethod(ctx context.Context, token util.Uint160, method string, params ...any) (*result.Invoke, error) {
	script, err := smartcontract.CreateCallScript(token, method, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s script: %w", method, err)
	}
	return c.InvokeScript(ctx, script, nil)
}
