package reminder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerMembershipIsMonotonic(t *testing.T) {
	ledger := NewLedger()

	require.False(t, ledger.Seen("a1"))
	require.Equal(t, 0, ledger.Size())

	ledger.Mark("a1")
	require.True(t, ledger.Seen("a1"))

	// Marking again changes nothing.
	ledger.Mark("a1")
	require.Equal(t, 1, ledger.Size())

	ledger.Mark("f1-2024-01-01")
	require.Equal(t, 2, ledger.Size())
	require.True(t, ledger.Seen("f1-2024-01-01"))
	require.False(t, ledger.Seen("f1-2024-01-02"))
}
