// Package render draws transcript entries on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"cardiochat/internal/explanation"
	"cardiochat/internal/transcript"
)

// Display writes entries as they are appended and animates a spinner while
// a prediction is outstanding.
type Display struct {
	out         io.Writer
	interactive bool
	mu          sync.Mutex
	spinMu      sync.Mutex // separate from mu so Render can stop the spinner
	spinning    bool
	spinStop    chan struct{}
	spinDone    chan struct{}
	spinStart   time.Time
}

// NewDisplay creates a display writing to out. The spinner only runs when
// out is a terminal.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out, interactive: IsTerminal(out)}
}

// Listener renders every appended entry and starts the spinner after the
// entry whose text is waitText.
func (d *Display) Listener(waitText string) transcript.Listener {
	return func(_ int, e transcript.Entry) {
		d.Render(e)
		if e.Origin == transcript.OriginSystem && waitText != "" && e.Text == waitText {
			d.StartSpinner("Analisando seus dados")
		}
	}
}

// Render writes one entry.
func (d *Display) Render(e transcript.Entry) {
	d.StopSpinner()

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, RenderEntry(e))
	fmt.Fprintln(d.out)
}

// RenderEntry formats an entry with its speaker badge.
func RenderEntry(e transcript.Entry) string {
	switch e.Origin {
	case transcript.OriginUser:
		return fmt.Sprintf("%s %s %s", BadgeUser.String(), StyleMuted.Render("›"), e.Text)
	case transcript.OriginError:
		return BadgeError.String() + "\n" + StyleError.Render(e.Text)
	case transcript.OriginResult:
		body := e.Text
		if e.Structured {
			body = RenderStructured(e.Text)
		}
		return BadgeResult.String() + "\n" + ResultBox().Render(body)
	default:
		return BadgeBot.String() + "\n" + renderInline(e.Text)
	}
}

// RenderStructured styles a formatted analysis block by block: section
// headers become titles and **emphasis** becomes bold.
func RenderStructured(text string) string {
	blocks := strings.Split(text, "\n\n")
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if explanation.IsSectionHeader(block) {
			out = append(out, StyleTitle.Render(strings.ReplaceAll(block, "**", "")))
			continue
		}
		out = append(out, renderInline(block))
	}
	return strings.Join(out, "\n\n")
}

func renderInline(block string) string {
	if !explanation.HasEmphasis(block) {
		return block
	}
	var b strings.Builder
	for _, span := range explanation.SplitEmphasis(block) {
		if span.Emphasis {
			b.WriteString(StyleBold.Render(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// ShowHint writes a muted input hint.
func (d *Display) ShowHint(hint string) {
	if hint == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, StyleMuted.Render("   "+hint))
}

// ShowPrompt writes the input marker without a newline.
func (d *Display) ShowPrompt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, StyleInfo.Render("› "))
}

// StartSpinner begins the loading line.
func (d *Display) StartSpinner(msg string) {
	if !d.interactive {
		return
	}
	d.spinMu.Lock()
	if d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = true
	d.spinStop = make(chan struct{})
	d.spinDone = make(chan struct{})
	d.spinStart = time.Now()
	d.spinMu.Unlock()

	go func() {
		defer close(d.spinDone)
		frame := 0
		first := true
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-d.spinStop:
				if !first {
					d.write("\033[1A\r\033[K")
				}
				return
			case <-ticker.C:
				line := fmt.Sprintf("   %s %s (%s)\n",
					StyleAccent.Render(SpinnerFrames[frame]), msg, formatElapsed(time.Since(d.spinStart)))
				if first {
					d.write(line)
					first = false
				} else {
					d.write("\033[1A\r\033[K" + line)
				}
				frame = (frame + 1) % len(SpinnerFrames)
			}
		}
	}()
}

func (d *Display) write(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, s)
}

// StopSpinner stops the loading line and clears it.
func (d *Display) StopSpinner() {
	d.spinMu.Lock()
	if !d.spinning {
		d.spinMu.Unlock()
		return
	}
	d.spinning = false
	close(d.spinStop)
	d.spinMu.Unlock()
	<-d.spinDone
}

// formatElapsed formats duration with fixed width (" 1.04s").
func formatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs < 10 {
		return fmt.Sprintf("%5.2fs", secs)
	} else if secs < 100 {
		return fmt.Sprintf("%5.1fs", secs)
	}
	return fmt.Sprintf("%5.0fs", secs)
}
