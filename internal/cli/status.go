package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bottlenose/pkg/httputil"
	"github.com/matzehuels/bottlenose/pkg/observability"
)

var statusFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// statusLine redraws a single terminal line while one invocation runs.
// Registered as call hooks, it appends the latest throttle wait or retry to
// the label so a slow call shows why it is slow.
type statusLine struct {
	out   io.Writer
	label string

	mu     sync.Mutex
	detail string
	frame  int
	width  int

	quit    chan struct{}
	exited  chan struct{}
	running bool
	stopped sync.Once
}

var _ observability.CallHooks = (*statusLine)(nil)

func newStatusLine(out io.Writer, label string) *statusLine {
	return &statusLine{
		out:    out,
		label:  label,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// start redraws the line every interval until stop is called.
func (s *statusLine) start(interval time.Duration) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		defer close(s.exited)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-s.quit:
				return
			case <-tick.C:
				s.draw()
			}
		}
	}()
}

// stop ends the redraw loop and blanks the line. It is safe to call more
// than once and on a line that never started.
func (s *statusLine) stop() {
	s.stopped.Do(func() { close(s.quit) })

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return
	}
	<-s.exited

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

func (s *statusLine) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := statusFrames[s.frame%len(statusFrames)]
	s.frame++
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.textLocked())

	pad := ""
	if w := lipgloss.Width(line); w < s.width {
		pad = strings.Repeat(" ", s.width-w)
	} else {
		s.width = w
	}
	fmt.Fprint(s.out, "\r"+line+pad)
}

// text is the current label plus the latest detail, unstyled.
func (s *statusLine) text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textLocked()
}

func (s *statusLine) textLocked() string {
	if s.detail == "" {
		return s.label
	}
	return s.label + " (" + s.detail + ")"
}

func (s *statusLine) setDetail(format string, args ...any) {
	s.mu.Lock()
	s.detail = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

func (s *statusLine) OnInvokeComplete(context.Context, string, string, bool, time.Duration, error) {}

func (s *statusLine) OnThrottle(_ context.Context, _ string, wait time.Duration) {
	s.setDetail("rate limited %s", wait.Round(time.Millisecond))
}

func (s *statusLine) OnRetry(_ context.Context, _, _ string, attempt int, err error) {
	s.setDetail("retry %d after %s", attempt, retryReason(err))
}

// retryReason summarizes a failed attempt without the request URL, which
// may carry credentials.
func retryReason(err error) string {
	te, ok := httputil.AsTransportError(err)
	switch {
	case !ok:
		return "error"
	case te.StatusCode != 0:
		return fmt.Sprintf("status %d", te.StatusCode)
	case te.Timeout():
		return "timeout"
	}
	return "network error"
}
