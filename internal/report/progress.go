package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/nao1215/linkpatrol/internal/crawler"
)

// Progress renders crawl progress to a terminal as URLs are processed.
// Each result becomes one line followed by a running counters line, so
// the output stays readable when redirected to a file or a CI log.
type Progress struct {
	mu      sync.Mutex
	output  io.Writer
	ok      *color.Color
	warn    *color.Color
	bad     *color.Color
	counter *color.Color
}

// ProgressOption configures a Progress renderer.
type ProgressOption func(*Progress)

// WithNoColor disables ANSI color codes in the output.
func WithNoColor() ProgressOption {
	return func(p *Progress) {
		for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.counter} {
			c.DisableColor()
		}
	}
}

// NewProgress creates a Progress renderer writing to output.
func NewProgress(output io.Writer, opts ...ProgressOption) *Progress {
	p := &Progress{
		output:  output,
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed),
		counter: color.New(color.FgCyan),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle renders a single crawl event. It is safe for concurrent use and
// matches the crawler.Engine result callback signature.
func (p *Progress) Handle(ev crawler.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writeResult(ev)
	p.writeCounters(ev)
}

func (p *Progress) writeResult(ev crawler.Event) {
	rec := ev.Record
	switch {
	case rec.Err != "":
		p.bad.Fprintf(p.output, "ERR %s (%s)\n", rec.URL, rec.Err)
	case rec.OK():
		p.ok.Fprintf(p.output, "%d %s\n", rec.Status, rec.URL)
	case rec.Status >= 300 && rec.Status < 400:
		p.warn.Fprintf(p.output, "%d %s\n", rec.Status, rec.URL)
	default:
		p.bad.Fprintf(p.output, "%d %s\n", rec.Status, rec.URL)
	}
}

func (p *Progress) writeCounters(ev crawler.Event) {
	total := ev.Processed + ev.Pending
	p.counter.Fprintf(p.output, "[ processed: %d/%d (%s)  success: %d (%s)  failed: %d (%s)  pending: %d ]\n",
		ev.Processed, total, percent(ev.Processed, total),
		ev.Success, percent(ev.Success, ev.Processed),
		ev.Failed, percent(ev.Failed, ev.Processed),
		ev.Pending)
}

// percent formats part as a percentage of whole, guarding division by zero.
func percent(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", part*100/whole)
}
