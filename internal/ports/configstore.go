package ports

import (
	"routeros/internal/types"
)

// ConfigStore is the read side of the client configuration, as consumed by the protocol session.
// Mutation happens on the concrete store while the client is being built.
// Every name passed in MUST be on the allow-list, otherwise types.ErrUnknownParameter is returned.
type ConfigStore interface {
	// Get returns the stored value, ok=false if absent. The port is derived from ssl when unset.
	Get(param types.Param) (value types.Value, ok bool, err error)

	// Parameters returns a copy of the raw contents, without derived values.
	Parameters() map[types.Param]types.Value

	// Settings returns a typed snapshot with the port already resolved.
	Settings() types.Settings
}
