package actor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/r3e-network/neokit/pkg/neorpc"
	"github.com/r3e-network/neokit/pkg/neorpc/result"
	"github.com/r3e-network/neokit/pkg/util"
)

// PollingWaiterRetryCount is a threshold for a number of subsequent failed
// attempts to get block count from the RPC server for BlockCursor. If it fails
// to retrieve block count PollingWaiterRetryCount times in a row then the
// cursor gives up and returns an error.
const PollingWaiterRetryCount = 3

var (
	// ErrTxNotAccepted is returned when transaction wasn't accepted to the chain
	// even after ValidUntilBlock block persist.
	ErrTxNotAccepted = errors.New("transaction was not accepted to chain")
	// ErrContextDone is returned when Waiter context has been done in the middle
	// of transaction awaiting process and no result was received yet.
	ErrContextDone = errors.New("waiter context done")
)

type (
	// Waiter is an interface providing transaction awaiting functionality to Actor.
	Waiter interface {
		// Wait allows to wait until transaction will be accepted to the chain. It can be
		// used as a wrapper for Send or SignAndSend and accepts transaction hash,
		// ValidUntilBlock value and an error. It returns the index of the block
		// containing the transaction or an error if transaction wasn't accepted to
		// the chain. Notice that "already exists" err value is not treated as an
		// error by this routine because it means that the transaction given might
		// be already accepted or soon going to be accepted.
		Wait(ctx context.Context, h util.Uint256, vub uint32, err error) (uint32, error)
		// WaitAny waits until at least one of the specified transactions will be accepted
		// to the chain until vub (including). It returns the hash of this
		// transaction and its block index.
		WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (util.Uint256, uint32, error)
	}
	// RPCPollingWaiter is an interface that enables transaction awaiting
	// functionality based on periodical block count and transaction height
	// polls.
	RPCPollingWaiter interface {
		GetBlockCount(ctx context.Context) (uint32, error)
		GetTransactionHeight(ctx context.Context, hash util.Uint256) (uint32, error)
	}
	// BlockCounter is the part of RPC client used by BlockCursor.
	BlockCounter interface {
		GetBlockCount(ctx context.Context) (uint32, error)
	}
)

// BlockCursor is a pull-based iterator over the chain height. Every Next call
// blocks until a block newer than the one previously returned is persisted.
// It's not thread-safe.
type BlockCursor struct {
	client   BlockCounter
	interval time.Duration
	next     uint32
}

// NewBlockCursor creates a cursor that returns blocks starting from the given
// index, polling the node every interval (1s if zero).
func NewBlockCursor(client BlockCounter, interval time.Duration, from uint32) *BlockCursor {
	if interval <= 0 {
		interval = time.Second
	}
	return &BlockCursor{
		client:   client,
		interval: interval,
		next:     from,
	}
}

// Next returns the index of the latest persisted block once it's not lower
// than the cursor position, the cursor then moves past it. Blocks that were
// persisted in between polls are skipped. Context cancellation interrupts the
// wait with ErrContextDone.
func (c *BlockCursor) Next(ctx context.Context) (uint32, error) {
	var failedAttempt int
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			count, err := c.client.GetBlockCount(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return 0, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
				}
				failedAttempt++
				if failedAttempt >= PollingWaiterRetryCount {
					return 0, fmt.Errorf("failed to retrieve block count: %w", err)
				}
			} else {
				failedAttempt = 0
				if count > c.next {
					c.next = count
					return count - 1, nil
				}
			}
			timer.Reset(c.interval)
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		}
	}
}

// PollingWaiter is a polling-based Waiter.
type PollingWaiter struct {
	polling  RPCPollingWaiter
	interval time.Duration
}

// NewPollingWaiter creates an instance of Waiter supporting poll-based
// transaction awaiting. Node is polled twice per block time.
func NewPollingWaiter(waiter RPCPollingWaiter, v *result.Version) *PollingWaiter {
	pollTime := time.Millisecond * time.Duration(v.Protocol.MillisecondsPerBlock) / 2
	if pollTime == 0 {
		pollTime = time.Second
	}
	return &PollingWaiter{
		polling:  waiter,
		interval: pollTime,
	}
}

// errIsAlreadyExists checks for the "already exists" error returned by nodes
// for transactions that are in the mempool or in the chain already.
func errIsAlreadyExists(err error) bool {
	var rpcErr *neorpc.Error
	if errors.As(err, &rpcErr) && rpcErr.Code == neorpc.ErrAlreadyExistsCode {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// Wait implements Waiter interface.
func (w *PollingWaiter) Wait(ctx context.Context, h util.Uint256, vub uint32, err error) (uint32, error) {
	if err != nil && !errIsAlreadyExists(err) {
		return 0, err
	}
	_, height, err := w.WaitAny(ctx, vub, h)
	return height, err
}

// WaitAny implements Waiter interface.
func (w *PollingWaiter) WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (util.Uint256, uint32, error) {
	var (
		cursor  = NewBlockCursor(w.polling, w.interval, 0)
		current uint32
		seen    bool
	)
	for {
		for _, h := range hashes {
			height, err := w.polling.GetTransactionHeight(ctx, h)
			if err == nil {
				return h, height, nil
			}
		}
		if seen && current >= vub {
			return util.Uint256{}, 0, ErrTxNotAccepted
		}
		idx, err := cursor.Next(ctx)
		if err != nil {
			return util.Uint256{}, 0, err
		}
		current, seen = idx, true
	}
}
