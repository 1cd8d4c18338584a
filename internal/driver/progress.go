package driver

// Stage is the step a file has reached.
type Stage uint8

const (
	StageParse Stage = iota
	StageBind
	StageDone
	StageCached
	StageLink // run-wide, File is empty
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageBind:
		return "bind"
	case StageDone:
		return "done"
	case StageCached:
		return "cached"
	case StageLink:
		return "link"
	}
	return "unknown"
}

// ProgressEvent reports one file moving to Stage. Done counts files that
// reached StageDone or StageCached so far.
type ProgressEvent struct {
	File  string
	Stage Stage
	Done  int
	Total int
}

// ProgressFunc receives events from the analysis goroutines and must be
// safe for concurrent calls.
type ProgressFunc func(ProgressEvent)
