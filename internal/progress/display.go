package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Display orchestrates the progress indicators of a validation run
type Display struct {
	out          io.Writer
	capabilities TerminalCapabilities
	current      *Item
	spinner      *spinner.Spinner
	symbols      Symbols
}

// NewDisplay creates a display writing to out with the given terminal capabilities
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:          out,
		capabilities: caps,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins displaying progress for an item
func (d *Display) Start(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	d.StopSpinner()

	item.Status = StatusInProgress
	d.current = &item
	msg := buildMessage(item, "")

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		d.spinner.Writer = d.out
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
	} else {
		fmt.Fprintln(d.out, msg)
	}
	return nil
}

// Phase shows the validation phase of the current item. It only changes the
// spinner text; nothing is printed in non-interactive mode.
func (d *Display) Phase(name string) {
	if d.current == nil || d.spinner == nil {
		return
	}
	d.spinner.Lock()
	d.spinner.Suffix = " " + buildMessage(*d.current, name)
	d.spinner.Unlock()
}

// Complete stops the spinner and prints the outcome of the current item
func (d *Display) Complete(item Item, errs, warnings int) {
	d.StopSpinner()

	mark := checkmark(d.symbols, d.capabilities.SupportsColor)
	if errs > 0 {
		mark = failureMark(d.symbols, d.capabilities.SupportsColor)
	}
	fmt.Fprintf(d.out, "%s %s %s: %s\n", mark, formatCounter(item.Number, item.Total), item.Name, summarize(errs, warnings))
	d.current = nil
}

// Fail stops the spinner and prints why the current item could not be validated
func (d *Display) Fail(item Item, err error) {
	d.StopSpinner()

	mark := failureMark(d.symbols, d.capabilities.SupportsColor)
	fmt.Fprintf(d.out, "%s %s %s failed: %v\n", mark, formatCounter(item.Number, item.Total), item.Name, err)
	d.current = nil
}

// StopSpinner stops the spinner without showing an outcome
func (d *Display) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
