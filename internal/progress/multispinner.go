// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package progress shows per-input progress on the terminal while reports load.
package progress

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"golang.org/x/term"
)

const tickInterval = 250 * time.Millisecond

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// MultiSpinnerUpdateFunc sets the status shown for a label
type MultiSpinnerUpdateFunc func(label string, status string) error

type spinnerLine struct {
	label   string
	status  string
	changed bool
	frame   int
}

// MultiSpinner shows one spinner and status line per label, e.g., one per input file.
// When the output is not a terminal only status changes are written.
type MultiSpinner struct {
	mu         sync.Mutex
	out        io.Writer
	isTerminal bool
	lines      []*spinnerLine
	stop       chan struct{}
	stopped    sync.WaitGroup
}

// NewMultiSpinner writes to stderr
func NewMultiSpinner() *MultiSpinner {
	return NewMultiSpinnerWithWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewMultiSpinnerWithWriter writes to out. Lines are redrawn in place only
// when isTerminal is true.
func NewMultiSpinnerWithWriter(out io.Writer, isTerminal bool) *MultiSpinner {
	return &MultiSpinner{out: out, isTerminal: isTerminal}
}

func (ms *MultiSpinner) find(label string) *spinnerLine {
	i := slices.IndexFunc(ms.lines, func(line *spinnerLine) bool { return line.label == label })
	if i == -1 {
		return nil
	}
	return ms.lines[i]
}

// AddSpinner adds a line for label, which must be unique
func (ms *MultiSpinner) AddSpinner(label string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.find(label) != nil {
		return fmt.Errorf("spinner with label %s already exists", label)
	}
	ms.lines = append(ms.lines, &spinnerLine{label: label, status: "?"})
	return nil
}

// Start draws the lines and keeps redrawing them until Finish
func (ms *MultiSpinner) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.stop != nil {
		return
	}
	ms.draw(true)
	ms.stop = make(chan struct{})
	ms.stopped.Add(1)
	go ms.run(ms.stop)
}

// Finish stops redrawing and leaves the final state on screen
func (ms *MultiSpinner) Finish() {
	ms.mu.Lock()
	stop := ms.stop
	ms.stop = nil
	ms.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	ms.stopped.Wait()
	ms.mu.Lock()
	ms.draw(false)
	ms.mu.Unlock()
}

// Status updates the status of a line. It is safe to call from multiple goroutines.
func (ms *MultiSpinner) Status(label string, status string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	line := ms.find(label)
	if line == nil {
		return fmt.Errorf("did not find spinner with label %s", label)
	}
	if line.status != status {
		line.status = status
		line.changed = true
	}
	return nil
}

func (ms *MultiSpinner) run(stop <-chan struct{}) {
	defer ms.stopped.Done()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			ms.draw(true)
			ms.mu.Unlock()
		}
	}
}

// draw must be called with ms.mu held. rewind moves the cursor back to the
// first line so the next draw overwrites this one.
func (ms *MultiSpinner) draw(rewind bool) {
	for _, line := range ms.lines {
		if !ms.isTerminal && !line.changed {
			continue
		}
		fmt.Fprintf(ms.out, "%-30s  %s  %-40s\n", line.label, spinChars[line.frame], line.status)
		line.changed = false
		line.frame = (line.frame + 1) % len(spinChars)
	}
	if rewind && ms.isTerminal {
		for range ms.lines {
			fmt.Fprint(ms.out, "\x1b[1A")
		}
	}
}
