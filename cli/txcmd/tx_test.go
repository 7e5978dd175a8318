package txcmd_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/r3e-network/neokit/cli/app"
	"github.com/r3e-network/neokit/cli/input"
	"github.com/r3e-network/neokit/internal/keytestcases"
	"github.com/r3e-network/neokit/internal/testcli"
	"github.com/r3e-network/neokit/pkg/core/native/nativehashes"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

const versionResult = `{"tcpport":20333,"nonce":1,"useragent":"/Neo:3.6.0/",
	"protocol":{"addressversion":53,"network":42,"msperblock":10,"maxtraceableblocks":2102400,
	"maxvaliduntilblockincrement":5760,"maxtransactionsperblock":512,"memorypoolmaxtransactions":50000,
	"validatorscount":1,"initialgasdistribution":5200000000000000,"standbycommittee":[],"seedlist":[]},
	"rpc":{"maxiteratorresultitems":100,"sessionenabled":true}}`

var sentHash = util.Uint256{1, 2, 3}

// stubNode replies to JSON-RPC requests with canned results.
type stubNode struct {
	mtx     sync.Mutex
	results map[string]string
	calls   map[string]int
}

func (n *stubNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	n.mtx.Lock()
	n.calls[req.Method]++
	res, ok := n.results[req.Method]
	n.mtx.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
		return
	}
	_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + res + `}`))
}

func (n *stubNode) callCount(method string) int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.calls[method]
}

func newStubNode(t *testing.T, committee string) (*stubNode, string) {
	n := &stubNode{
		results: map[string]string{
			"getversion":           versionResult,
			"getblockcount":        "100",
			"getcommittee":         `["` + committee + `"]`,
			"invokescript":         `{"state":"HALT","gasconsumed":"500000","script":"EUA=","stack":[],"exception":null}`,
			"calculatenetworkfee":  `{"networkfee":"1271390"}`,
			"sendrawtransaction":   `{"hash":"0x` + sentHash.StringLE() + `"}`,
			"gettransactionheight": "101",
		},
		calls: make(map[string]int),
	}
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return n, srv.URL
}

func decodeTx(t *testing.T, e *testcli.Executor) *transaction.Transaction {
	raw, err := hex.DecodeString(e.GetNextLine(t))
	require.NoError(t, err)
	tx, err := transaction.NewTransactionFromBytes(raw)
	require.NoError(t, err)
	return tx
}

func TestRun(t *testing.T) {
	tc := keytestcases.Arr[0]
	pub, err := keys.NewPublicKeyFromString(tc.PublicKey)
	require.NoError(t, err)
	node, endpoint := newStubNode(t, tc.PublicKey)
	e := testcli.NewExecutor(t, app.New())

	e.Run(t, "neokit", "tx", "run", "-r", endpoint, "--wif", tc.Wif, "--script", "1140")
	tx := decodeTx(t, e)
	e.CheckEOF(t)
	require.Equal(t, []byte{0x11, 0x40}, tx.Script)
	require.Equal(t, int64(500000), tx.SystemFee)
	require.Equal(t, int64(1271390), tx.NetworkFee)
	require.Equal(t, uint32(5859), tx.ValidUntilBlock)
	require.Equal(t, 1, len(tx.Signers))
	require.Equal(t, pub.GetScriptHash(), tx.Signers[0].Account)
	require.Equal(t, transaction.CalledByEntry, tx.Signers[0].Scopes)
	require.Equal(t, 1, len(tx.Scripts))
	require.Equal(t, 0, len(tx.Attributes))
	require.Equal(t, 0, node.callCount("sendrawtransaction"))

	t.Run("config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "neokit.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte(`Network: unit_testnet
ApplicationConfiguration:
  LogLevel: warn
  RPC:
    Endpoint: `+endpoint+`
TransactionConfiguration:
  AdditionalNetworkFee: 10
  AdditionalSystemFee: 20
  DefaultVUBIncrement: 100
`), 0644))
		e.Run(t, "neokit", "tx", "run", "--config-file", cfgPath, "--wif", tc.Wif, "--script", "0x1140")
		tx := decodeTx(t, e)
		require.Equal(t, int64(500020), tx.SystemFee)
		require.Equal(t, int64(1271400), tx.NetworkFee)
		require.Equal(t, uint32(199), tx.ValidUntilBlock)

		wrongNet := filepath.Join(t.TempDir(), "mainnet.yml")
		require.NoError(t, os.WriteFile(wrongNet, []byte("Network: mainnet\n"), 0644))
		e.RunWithError(t, "neokit", "tx", "run", "-c", wrongNet, "-r", endpoint, "--wif", tc.Wif, "--script", "1140")
	})
	t.Run("high priority", func(t *testing.T) {
		e.Run(t, "neokit", "tx", "run", "-r", endpoint, "--wif", tc.Wif, "--script", "1140", "--high-priority")
		tx := decodeTx(t, e)
		require.True(t, tx.HasAttribute(transaction.HighPriority))

		_, other := newStubNode(t, keytestcases.Arr[1].PublicKey)
		e.RunWithError(t, "neokit", "tx", "run", "-r", other, "--wif", tc.Wif, "--script", "1140", "--high-priority")
	})
	t.Run("send", func(t *testing.T) {
		e.Run(t, "neokit", "tx", "run", "-r", endpoint, "--wif", tc.Wif, "--script", "1140", "--send")
		e.CheckNextLine(t, "^Hash: "+sentHash.StringLE()+"$")
		e.CheckEOF(t)
		require.Equal(t, 1, node.callCount("sendrawtransaction"))
	})
	t.Run("await", func(t *testing.T) {
		e.Run(t, "neokit", "tx", "run", "-r", endpoint, "--wif", tc.Wif, "--script", "1140", "--await")
		e.CheckNextLine(t, "^Hash: "+sentHash.StringLE()+"$")
		e.CheckNextLine(t, "^Height: 101$")
		e.CheckEOF(t)
	})
	t.Run("WIF from terminal", func(t *testing.T) {
		input.Terminal = term.NewTerminal(input.ReadWriter{
			Reader: bytes.NewBufferString(tc.Wif + "\r"),
			Writer: io.Discard,
		}, "")
		t.Cleanup(func() { input.Terminal = nil })
		e.Run(t, "neokit", "tx", "run", "-r", endpoint, "--script", "1140")
		tx := decodeTx(t, e)
		require.Equal(t, pub.GetScriptHash(), tx.Signers[0].Account)
	})
	t.Run("errors", func(t *testing.T) {
		e.RunWithError(t, "neokit", "tx", "run", "-r", endpoint, "--wif", tc.Wif, "--script", "zz")
		e.RunWithError(t, "neokit", "tx", "run", "-r", endpoint, "--wif", "bad", "--script", "1140")
		e.RunWithError(t, "neokit", "tx", "run", "--wif", tc.Wif, "--script", "1140")
		e.RunWithError(t, "neokit", "tx", "run", "-c", "missing.yml", "--wif", tc.Wif, "--script", "1140")
	})
}

func TestInvoke(t *testing.T) {
	tc := keytestcases.Arr[0]
	pub, err := keys.NewPublicKeyFromString(tc.PublicKey)
	require.NoError(t, err)
	_, endpoint := newStubNode(t, tc.PublicKey)
	e := testcli.NewExecutor(t, app.New())

	to := keytestcases.Arr[1].Address
	e.Run(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif,
		"GasToken", "transfer", tc.Address, to, "int:100", "any:")
	tx := decodeTx(t, e)
	e.CheckEOF(t)

	toPub, err := keys.NewPublicKeyFromString(keytestcases.Arr[1].PublicKey)
	require.NoError(t, err)
	expected, err := smartcontract.CreateCallScript(nativehashes.Gas, "transfer",
		pub.GetScriptHash(), toPub.GetScriptHash(), big.NewInt(100), nil)
	require.NoError(t, err)
	require.Equal(t, expected, tx.Script)

	t.Run("script hash", func(t *testing.T) {
		for _, contract := range []string{nativehashes.Gas.StringLE(), "0x" + nativehashes.Gas.StringLE()} {
			e.Run(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif, contract, "symbol")
			tx := decodeTx(t, e)
			expected, err := smartcontract.CreateCallScript(nativehashes.Gas, "symbol")
			require.NoError(t, err)
			require.Equal(t, expected, tx.Script)
		}
	})
	t.Run("errors", func(t *testing.T) {
		e.RunWithError(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif, "GasToken")
		e.RunWithError(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif, "NoSuchToken", "symbol")
		e.RunWithError(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif, "GasToken", "transfer", "int:x")
		e.RunWithError(t, "neokit", "tx", "invoke", "-r", endpoint, "--wif", tc.Wif, "GasToken", "transfer", "array:")
	})
}
