package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"binder/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	model := NewProgressModel("check", "/w", []string{"/w/src/a.js"}, events)

	model, _ = model.Update(eventMsg{File: "/w/src/a.js", Stage: driver.StageDone, Done: 1, Total: 2})
	model, _ = model.Update(eventMsg{File: "/w/src/b.js", Stage: driver.StageBind, Done: 1, Total: 2})

	view := model.View()
	for _, want := range []string{"check 1/2", "src/a.js", "src/b.js", "done", "bind"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	pm := model.(*progressModel)
	if len(pm.items) != 2 || pm.items[1].stage != driver.StageBind {
		t.Fatalf("unknown files must be appended, got %+v", pm.items)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	close(events)
	model := NewProgressModel("check", "", nil, events)
	pm := model.(*progressModel)

	msg := pm.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg on a closed channel, got %T", msg)
	}
	model, cmd := model.Update(msg)
	if cmd == nil || !model.(*progressModel).finished {
		t.Fatalf("expected the model to finish and quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.Quit")
	}
	if !strings.Contains(model.View(), "done: check 0/0") {
		t.Fatalf("unexpected final view:\n%s", model.View())
	}
}

func TestSinkAndTruncate(t *testing.T) {
	ch := make(chan driver.ProgressEvent, 1)
	Sink(ch)(driver.ProgressEvent{File: "a.js", Stage: driver.StageCached})
	if ev := <-ch; ev.Stage != driver.StageCached {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("short values must stay intact, got %q", got)
	}
}
