package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/r3e-network/neokit/pkg/config/netmode"
	"github.com/r3e-network/neokit/pkg/core/native/nativehashes"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/neorpc"
	"github.com/r3e-network/neokit/pkg/neorpc/result"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      uint64            `json:"id"`
}

// testNode is a stub JSON-RPC node replying with canned results.
type testNode struct {
	t       *testing.T
	mtx     sync.Mutex
	results map[string]string
	calls   map[string]int
	last    map[string]rpcRequest
}

func (n *testNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	require.NoError(n.t, json.NewDecoder(r.Body).Decode(&req))
	require.Equal(n.t, neorpc.JSONRPCVersion, req.JSONRPC)
	require.NotNil(n.t, req.Params)

	n.mtx.Lock()
	n.calls[req.Method]++
	n.last[req.Method] = req
	res, ok := n.results[req.Method]
	n.mtx.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
		return
	}
	_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + res + `}`))
}

func (n *testNode) callCount(method string) int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.calls[method]
}

func (n *testNode) lastRequest(method string) rpcRequest {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.last[method]
}

func newTestClient(t *testing.T, results map[string]string) (*Client, *testNode) {
	node := &testNode{
		t:       t,
		results: results,
		calls:   make(map[string]int),
		last:    make(map[string]rpcRequest),
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, Options{})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, node
}

const versionResult = `{"tcpport":20333,"nonce":1,"useragent":"/Neo:3.6.0/",
	"protocol":{"addressversion":53,"network":860833102,"msperblock":15000,"maxtraceableblocks":2102400,
	"maxvaliduntilblockincrement":5760,"maxtransactionsperblock":512,"memorypoolmaxtransactions":50000,
	"validatorscount":7,"initialgasdistribution":5200000000000000,"standbycommittee":[],"seedlist":[]},
	"rpc":{"maxiteratorresultitems":100,"sessionenabled":true}}`

func TestGetEndpoint(t *testing.T) {
	host := "http://localhost:1234"
	u, err := url.Parse(host)
	require.NoError(t, err)
	client := Client{
		endpoint: u,
	}
	require.Equal(t, host, client.Endpoint())
}

func TestNewBadEndpoint(t *testing.T) {
	_, err := New("ws://localhost:1234", Options{})
	require.Error(t, err)
	_, err = New("http://[::1", Options{})
	require.Error(t, err)
}

func TestGetBlockCount(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"getblockcount": "12345"})

	okBefore := testutil.ToFloat64(requestsTotal.WithLabelValues("getblockcount", "ok"))
	count, err := c.GetBlockCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint32(12345), count)
	require.Equal(t, okBefore+1, testutil.ToFloat64(requestsTotal.WithLabelValues("getblockcount", "ok")))
}

func TestGetVersionCached(t *testing.T) {
	c, node := newTestClient(t, map[string]string{"getversion": versionResult})
	ctx := context.Background()

	v, err := c.GetVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(5760), v.Protocol.MaxValidUntilBlockIncrement)

	magic, err := c.GetNetwork(ctx)
	require.NoError(t, err)
	require.Equal(t, netmode.MainNet, magic)
	require.Equal(t, 1, node.callCount("getversion"))

	c.InvalidateCache()
	_, err = c.GetVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, node.callCount("getversion"))
}

func TestGetCommittee(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"getcommittee": `["02103a7f7dd016558597f7960d27c516a4394fd968b9e65155eb4b013e4040406e"]`,
	})
	comm, err := c.GetCommittee(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, len(comm))
	require.Equal(t, "02103a7f7dd016558597f7960d27c516a4394fd968b9e65155eb4b013e4040406e", comm[0].StringCompressed())
}

func newTestTx() *transaction.Transaction {
	tx := transaction.New([]byte{0x11}, 0)
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry}}
	tx.Scripts = []transaction.Witness{{}}
	return tx
}

func TestCalculateNetworkFee(t *testing.T) {
	c, node := newTestClient(t, map[string]string{"calculatenetworkfee": `{"networkfee":"1271390"}`})
	tx := newTestTx()

	fee, err := c.CalculateNetworkFee(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, int64(1271390), fee)

	req := node.lastRequest("calculatenetworkfee")
	require.Equal(t, 1, len(req.Params))
	require.Equal(t, `"`+base64.StdEncoding.EncodeToString(tx.Bytes())+`"`, string(req.Params[0]))
}

func TestInvokeScript(t *testing.T) {
	c, node := newTestClient(t, map[string]string{
		"invokescript": `{"state":"HALT","gasconsumed":"500000","script":"EQ==","stack":[{"type":"Integer","value":"1"}],"exception":null}`,
	})
	signers := []transaction.Signer{{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry}}

	res, err := c.InvokeScript(context.Background(), []byte{0x11}, signers)
	require.NoError(t, err)
	require.Equal(t, int64(500000), res.GasConsumed)
	require.False(t, res.HasFaulted())

	req := node.lastRequest("invokescript")
	require.Equal(t, 2, len(req.Params))
	require.Equal(t, `"EQ=="`, string(req.Params[0]))
	require.JSONEq(t, `[{"account":"0x0000000000000000000000000000000000030201","scopes":"CalledByEntry"}]`, string(req.Params[1]))

	_, err = c.InvokeScript(context.Background(), []byte{0x11}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, len(node.lastRequest("invokescript").Params))
}

func TestSendRawTransaction(t *testing.T) {
	h := util.Uint256{1, 2, 3}
	c, _ := newTestClient(t, map[string]string{"sendrawtransaction": `{"hash":"0x` + h.StringLE() + `"}`})
	actual, err := c.SendRawTransaction(context.Background(), newTestTx())
	require.NoError(t, err)
	require.Equal(t, h, actual)

	t.Run("error returns local hash", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{})
		tx := newTestTx()
		actual, err := c.SendRawTransaction(context.Background(), tx)
		require.Error(t, err)
		require.Equal(t, tx.Hash(), actual)
	})
}

func TestGetTransactionHeight(t *testing.T) {
	c, node := newTestClient(t, map[string]string{"gettransactionheight": "42"})
	h := util.Uint256{0xff}
	height, err := c.GetTransactionHeight(context.Background(), h)
	require.NoError(t, err)
	require.Equal(t, uint32(42), height)
	require.Equal(t, `"`+h.StringLE()+`"`, string(node.lastRequest("gettransactionheight").Params[0]))
}

func TestRPCError(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{})

	errBefore := testutil.ToFloat64(requestsTotal.WithLabelValues("getblockcount", "error"))
	_, err := c.GetBlockCount(context.Background())
	require.Error(t, err)
	var rpcErr *neorpc.Error
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, int64(neorpc.MethodNotFoundCode), rpcErr.Code)
	require.Equal(t, errBefore+1, testutil.ToFloat64(requestsTotal.WithLabelValues("getblockcount", "error")))
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Options{})
	require.NoError(t, err)
	_, err = c.GetBlockCount(context.Background())
	require.ErrorContains(t, err, "HTTP 503")
}

func TestContextCancelled(t *testing.T) {
	c, node := newTestClient(t, map[string]string{"getblockcount": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetBlockCount(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, node.callCount("getblockcount"))
}

func TestNEP17Metadata(t *testing.T) {
	c, node := newTestClient(t, map[string]string{
		"invokescript": `{"state":"HALT","gasconsumed":"100","script":"EQ==","stack":[{"type":"Integer","value":"8"}],"exception":null}`,
	})
	ctx := context.Background()

	d, err := c.NEP17Decimals(ctx, nativehashes.Gas)
	require.NoError(t, err)
	require.Equal(t, 8, d)
	d, err = c.NEP17Decimals(ctx, nativehashes.Gas)
	require.NoError(t, err)
	require.Equal(t, 8, d)
	require.Equal(t, 1, node.callCount("invokescript"))

	bal, err := c.NEP17BalanceOf(ctx, nativehashes.Gas, util.Uint160{1})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(8), bal)
	require.Equal(t, 2, node.callCount("invokescript"))

	node.mtx.Lock()
	node.results["invokescript"] = `{"state":"HALT","gasconsumed":"100","script":"EQ==","stack":[{"type":"ByteString","value":"R0FT"}],"exception":null}`
	node.mtx.Unlock()
	sym, err := c.NEP17Symbol(ctx, nativehashes.Gas)
	require.NoError(t, err)
	require.Equal(t, "GAS", sym)
	_, err = c.NEP17Symbol(ctx, nativehashes.Gas)
	require.NoError(t, err)
	require.Equal(t, 3, node.callCount("invokescript"))

	_, err = c.NEP17Decimals(ctx, util.Uint160{9})
	require.ErrorIs(t, err, result.ErrUnexpectedStackItem)
}
