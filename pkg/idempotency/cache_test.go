package idempotency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

func TestCheckAndClaim_FirstCallClaims(t *testing.T) {
	c := New(DefaultTTL)
	lookup, resp := c.CheckAndClaim("txn-1")

	assert.Equal(t, Claimed, lookup)
	assert.Equal(t, processor.Response{}, resp)
}

func TestCheckAndClaim_ReturnsCachedTerminalResponse(t *testing.T) {
	c := New(DefaultTTL)
	c.CheckAndClaim("txn-1")

	stored := processor.Response{TransactionID: "txn-1", Status: "approved"}
	c.StoreAndEvict("txn-1", stored)

	lookup, resp := c.CheckAndClaim("txn-1")
	assert.Equal(t, Cached, lookup)
	assert.Equal(t, stored, resp)
}

func TestCheckAndClaim_ConcurrentProcessingSentinelAllowsIndependentClaim(t *testing.T) {
	c := New(DefaultTTL)
	c.CheckAndClaim("txn-1") // first caller claims, leaves a "processing" sentinel

	lookup, resp := c.CheckAndClaim("txn-1")
	assert.Equal(t, Claimed, lookup, "a concurrent caller for the same id proceeds independently (TOCTOU)")
	assert.Equal(t, processor.Response{}, resp)
}

func TestCheckAndClaim_ExpiredTerminalEntryIsReClaimed(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.CheckAndClaim("txn-1")
	c.StoreAndEvict("txn-1", processor.Response{TransactionID: "txn-1", Status: "approved"})

	time.Sleep(20 * time.Millisecond)

	lookup, _ := c.CheckAndClaim("txn-1")
	assert.Equal(t, Claimed, lookup)
}

func TestStoreAndEvict_SweepsExpiredEntriesOnEveryStore(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.CheckAndClaim("old-txn")
	c.StoreAndEvict("old-txn", processor.Response{TransactionID: "old-txn"})

	time.Sleep(20 * time.Millisecond)

	c.CheckAndClaim("new-txn")
	c.StoreAndEvict("new-txn", processor.Response{TransactionID: "new-txn"})

	assert.Equal(t, 1, c.Size(), "the expired old-txn entry is swept by the new-txn store")
}

func TestSize_ReflectsLiveEntryCount(t *testing.T) {
	c := New(DefaultTTL)
	assert.Equal(t, 0, c.Size())

	c.CheckAndClaim("txn-1")
	assert.Equal(t, 1, c.Size())

	c.CheckAndClaim("txn-2")
	assert.Equal(t, 2, c.Size())
}
