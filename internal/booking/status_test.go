package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("completed").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusBlocks(t *testing.T) {
	assert.True(t, StatusPending.Blocks())
	assert.True(t, StatusConfirmed.Blocks())
	assert.False(t, StatusRejected.Blocks())
	assert.False(t, StatusCancelled.Blocks())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled}

	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusRejected}:    true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			assert.Equalf(t, allowed[[2]Status{from, to}], got, "%s -> %s", from, to)
		}
	}

	// Terminal states accept nothing, including re-entry.
	assert.False(t, CanTransition(StatusRejected, StatusRejected))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
}
