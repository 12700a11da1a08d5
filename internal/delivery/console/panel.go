package console

import (
	"bytes"
	"strings"
	"sync"
)

// Panel is an io.Writer keeping the last lines written to it. It backs the
// on-screen debug area when log lines are mirrored with logger.NewMirror.
type Panel struct {
	mu    sync.Mutex
	max   int
	lines []string
	buf   bytes.Buffer
}

// NewPanel returns a panel holding at most size lines.
func NewPanel(size int) *Panel {
	if size <= 0 {
		size = 8
	}
	return &Panel{max: size}
}

func (p *Panel) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)
	for {
		line, err := p.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			p.buf.Reset()
			p.buf.WriteString(line)
			break
		}
		p.lines = append(p.lines, strings.TrimRight(line, "\r\n"))
	}

	if over := len(p.lines) - p.max; over > 0 {
		p.lines = p.lines[over:]
	}

	return len(b), nil
}

// Drain returns the buffered lines and clears the panel.
func (p *Panel) Drain() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	lines := p.lines
	p.lines = nil
	return lines
}
