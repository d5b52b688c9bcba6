package telemetry

import (
	"fmt"
	"strings"
)

const (
	KeyInteractionsApplied        = "interactions_applied_total"
	KeyInteractionsRejected       = "interactions_rejected_total"
	KeyInteractionsRetry          = "interactions_retry_total"
	KeyInteractionsQueried        = "interactions_queried_total"
	KeyInteractionsRemoved        = "interactions_removed_total"
	KeyInteractionsRemoveRejected = "interactions_remove_rejected_total"
	KeyInteractionsExpired        = "interactions_expired_total"
	KeyInteractionsActive         = "interactions_active"
	KeyCommandsDropped            = "sim_commands_dropped_total"
	KeyCommandBufferOccupancy     = "sim_command_buffer_occupancy"
	KeyCommandBufferOverflow      = "sim_command_buffer_overflow_total"
	KeyTickOverruns               = "sim_tick_overruns_total"
	KeyTicks                      = "sim_ticks_total"
	KeyClientsConnected           = "net_clients_connected"
	KeyLedgerWrites               = "ledger_writes_total"
)

// KindKey scopes a counter to a single effect kind, e.g.
// "interactions_applied_total.freeze_player".
func KindKey(base, kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return base
	}
	return fmt.Sprintf("%s.%s", base, kind)
}
