package wm

// State is the lifecycle state of a client.
type State uint8

const (
	Unmanaged State = iota
	Managed
	Dying
	Removed
)

func (s State) String() string {
	switch s {
	case Unmanaged:
		return "unmanaged"
	case Managed:
		return "managed"
	case Dying:
		return "dying"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}
