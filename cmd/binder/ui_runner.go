package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"binder/internal/driver"
	"binder/internal/ui"
)

type checkOutcome struct {
	run *driver.Run
	err error
}

// runCheckDirWithUI runs driver.CheckDir while a Bubble Tea program renders
// its progress events. The progress view goes to stderr so stdout keeps
// only the diagnostics.
func runCheckDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*driver.Run, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = ui.Sink(events)
		run, err := driver.CheckDir(ctx, dir, optsCopy)
		close(events)
		outcomeCh <- checkOutcome{run: run, err: err}
	}()

	model := ui.NewProgressModel(title, dir, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the model may quit early (ctrl+c); keep the driver from blocking on a
	// channel nobody reads
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
