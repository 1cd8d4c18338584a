package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAddAccumulatesConcurrently(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() { timer.Add("bind", time.Millisecond) })
	}
	wg.Wait()
	rep := timer.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Count != 8 || rep.Phases[0].DurationMS != 8 {
		t.Fatalf("unexpected report %+v", rep)
	}
	// accumulated phases stay out of the total
	if rep.TotalMS != 0 {
		t.Fatalf("expected zero total, got %v", rep.TotalMS)
	}
}

func TestBeginEndSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("check")
	timer.End(idx, "3 files")
	timer.End(42, "ignored")
	out := timer.Summary()
	if !strings.Contains(out, "check") || !strings.Contains(out, "// 3 files") || !strings.Contains(out, "total") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestNilTimerAddIsNoop(t *testing.T) {
	var timer *Timer
	timer.Add("x", time.Second)
}
