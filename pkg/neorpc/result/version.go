package result

import (
	"encoding/json"
	"fmt"

	"github.com/r3e-network/neokit/pkg/config/netmode"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
)

type (
	// Version model used for reporting server version
	// info.
	Version struct {
		TCPPort   uint16   `json:"tcpport"`
		WSPort    uint16   `json:"wsport,omitempty"`
		Nonce     uint32   `json:"nonce"`
		UserAgent string   `json:"useragent"`
		Protocol  Protocol `json:"protocol"`
		RPC       RPC      `json:"rpc"`
	}

	// RPC represents the RPC server configuration.
	RPC struct {
		MaxIteratorResultItems int  `json:"maxiteratorresultitems"`
		SessionEnabled         bool `json:"sessionenabled"`
	}

	// Protocol represents network-dependent parameters.
	Protocol struct {
		AddressVersion              byte
		Network                     netmode.Magic
		MillisecondsPerBlock        int
		MaxTraceableBlocks          uint32
		MaxValidUntilBlockIncrement uint32
		MaxTransactionsPerBlock     uint16
		MemoryPoolMaxTransactions   int
		ValidatorsCount             byte
		InitialGasDistribution      int64
		StandbyCommittee            keys.PublicKeys
		SeedList                    []string
	}

	// protocolMarshallerAux is an auxiliary struct used for Protocol JSON marshalling.
	protocolMarshallerAux struct {
		AddressVersion              byte          `json:"addressversion"`
		Network                     netmode.Magic `json:"network"`
		MillisecondsPerBlock        int           `json:"msperblock"`
		MaxTraceableBlocks          uint32        `json:"maxtraceableblocks"`
		MaxValidUntilBlockIncrement uint32        `json:"maxvaliduntilblockincrement"`
		MaxTransactionsPerBlock     uint16        `json:"maxtransactionsperblock"`
		MemoryPoolMaxTransactions   int           `json:"memorypoolmaxtransactions"`
		ValidatorsCount             byte          `json:"validatorscount"`
		InitialGasDistribution      int64         `json:"initialgasdistribution"`
		StandbyCommittee            []string      `json:"standbycommittee"`
		SeedList                    []string      `json:"seedlist"`
	}
)

// MarshalJSON implements the JSON marshaler interface.
func (p Protocol) MarshalJSON() ([]byte, error) {
	standbyCommittee := make([]string, len(p.StandbyCommittee))
	for i, key := range p.StandbyCommittee {
		standbyCommittee[i] = key.StringCompressed()
	}

	aux := protocolMarshallerAux{
		AddressVersion:              p.AddressVersion,
		Network:                     p.Network,
		MillisecondsPerBlock:        p.MillisecondsPerBlock,
		MaxTraceableBlocks:          p.MaxTraceableBlocks,
		MaxValidUntilBlockIncrement: p.MaxValidUntilBlockIncrement,
		MaxTransactionsPerBlock:     p.MaxTransactionsPerBlock,
		MemoryPoolMaxTransactions:   p.MemoryPoolMaxTransactions,
		ValidatorsCount:             p.ValidatorsCount,
		InitialGasDistribution:      p.InitialGasDistribution,
		StandbyCommittee:            standbyCommittee,
		SeedList:                    p.SeedList,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the JSON unmarshaler interface. Fields unknown to
// the client (hardforks and node-specific extensions) are ignored.
func (p *Protocol) UnmarshalJSON(data []byte) error {
	var aux protocolMarshallerAux
	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}
	standbyCommittee := make(keys.PublicKeys, len(aux.StandbyCommittee))
	for i, s := range aux.StandbyCommittee {
		standbyCommittee[i], err = keys.NewPublicKeyFromString(s)
		if err != nil {
			return fmt.Errorf("standby committee key #%d: %w", i, err)
		}
	}
	p.AddressVersion = aux.AddressVersion
	p.Network = aux.Network
	p.MillisecondsPerBlock = aux.MillisecondsPerBlock
	p.MaxTraceableBlocks = aux.MaxTraceableBlocks
	p.MaxValidUntilBlockIncrement = aux.MaxValidUntilBlockIncrement
	p.MaxTransactionsPerBlock = aux.MaxTransactionsPerBlock
	p.MemoryPoolMaxTransactions = aux.MemoryPoolMaxTransactions
	p.ValidatorsCount = aux.ValidatorsCount
	p.InitialGasDistribution = aux.InitialGasDistribution
	p.StandbyCommittee = standbyCommittee
	p.SeedList = aux.SeedList
	return nil
}
