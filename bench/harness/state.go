package harness

// State 压测生命周期阶段，只会向前迁移
type State int32

const (
	StateInit State = iota
	StateWarmup
	StateRunning
	StateDraining
	StateReport
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWarmup:
		return "WARMUP"
	case StateRunning:
		return "RUNNING"
	case StateDraining:
		return "DRAINING"
	case StateReport:
		return "REPORT"
	default:
		return "UNKNOWN"
	}
}
