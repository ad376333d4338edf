package link

// State is a stage of the authorization state machine. States advance
// strictly forward; Failed is terminal and reachable from any non-terminal
// state.
type State int

const (
	StateIdle State = iota
	StateProfileReady
	StateLinkCreated
	StateListenerActive
	StateAwaitingCallback
	StateCallbackReceived
	StateTokenExchanged
	StatePersisted
	StateDone
	StateFailed
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateProfileReady:
		return "ProfileReady"
	case StateLinkCreated:
		return "LinkCreated"
	case StateListenerActive:
		return "ListenerActive"
	case StateAwaitingCallback:
		return "AwaitingCallback"
	case StateCallbackReceived:
		return "CallbackReceived"
	case StateTokenExchanged:
		return "TokenExchanged"
	case StatePersisted:
		return "Persisted"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
