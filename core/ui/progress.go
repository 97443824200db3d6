// Package ui draws progress for the phases of a run.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

type Phase string

const (
	PhaseScanning   Phase = "Scanning"
	PhaseGenerating Phase = "Generating"
	PhaseWriting    Phase = "Writing"
)

type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

func NewProgressBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

func (pb *ProgressBar) Increment() {
	_ = pb.bar.Add(1)
}

// Describe shows detail, such as the current file, next to the phase.
func (pb *ProgressBar) Describe(detail string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, detail))
}

func (pb *ProgressBar) Finish() {
	_ = pb.bar.Finish()
}

// Pipeline shows one bar per phase, in order. A disabled pipeline hands out
// bars that draw nothing, so callers never need to check.
type Pipeline struct {
	phases   []Phase
	current  int
	bar      *ProgressBar
	disabled bool
	output   io.Writer
}

func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stderr)
}

func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{phases: phases, current: -1, output: output}
}

func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the running bar and starts the next phase. Past the
// last phase it returns a bar that draws nothing.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	out := p.output
	phase := Phase("")
	if p.current < len(p.phases) {
		phase = p.phases[p.current]
	}
	if p.disabled || phase == "" {
		out = io.Discard
	}

	p.bar = NewProgressBar(phase, total, out)
	return p.bar
}

func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// Running reports whether a bar is still drawing.
func (p *Pipeline) Running() bool {
	return p.bar != nil
}

// Current is the running phase, empty before the first and after the last.
func (p *Pipeline) Current() Phase {
	if p.current < 0 || p.current >= len(p.phases) {
		return ""
	}
	return p.phases[p.current]
}
