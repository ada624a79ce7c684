package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vanadium/internal/driver"
	"vanadium/internal/project"
	"vanadium/internal/ui"
)

type transformRun struct {
	ws      *driver.Workspace
	results []driver.FileResult
}

type transformOutcome struct {
	run transformRun
	err error
}

func transformProject(ctx context.Context, m *project.Manifest, files []string, opts driver.Options) (transformRun, error) {
	ws, err := driver.LoadProject(ctx, m, files, opts)
	if err != nil {
		return transformRun{ws: ws}, err
	}
	results, err := ws.Transform(ctx)
	return transformRun{ws: ws, results: results}, err
}

// runTransformWithUI runs the pipeline in the background and renders its
// events until the pipeline closes the channel.
func runTransformWithUI(ctx context.Context, title string, files []string, m *project.Manifest, opts driver.Options) (transformRun, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan transformOutcome, 1)

	go func() {
		reqOpts := opts
		reqOpts.Progress = driver.ChannelSink{Ch: events}
		run, err := transformProject(ctx, m, files, reqOpts)
		outcomeCh <- transformOutcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the pipeline may still be sending if the program quit early
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
