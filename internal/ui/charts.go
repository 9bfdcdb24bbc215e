package ui

import (
	"fleet-dashboard/internal/domain"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// Chart is a rendered chart instance that must be destroyed before another
// one takes its place.
type Chart interface {
	Destroy()
}

type ChartRenderer interface {
	NewBarChart(title string, s domain.Series) (Chart, error)
}

// TextBarChart draws horizontal bar charts with block characters.
type TextBarChart struct {
	W     io.Writer
	Width int
}

type textChart struct {
	mu        sync.Mutex
	destroyed bool
}

func (c *textChart) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()
}

func (c *textChart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (r TextBarChart) NewBarChart(title string, s domain.Series) (Chart, error) {
	if len(s.Labels) != len(s.Data) {
		return nil, fmt.Errorf("bar chart %q: %d labels for %d values", title, len(s.Labels), len(s.Data))
	}
	width := r.Width
	if width <= 0 {
		width = 40
	}

	peak := 0.0
	labelWidth := 0
	for i, v := range s.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > peak {
			peak = v
		}
		if n := len([]rune(s.Labels[i])); n > labelWidth {
			labelWidth = n
		}
	}

	var b strings.Builder
	fmt.Fprintln(&b, title)
	for i, v := range s.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		n := 0
		if peak > 0 && v > 0 {
			n = int(v / peak * float64(width))
		}
		fmt.Fprintf(&b, "%-*s %s %.2f\n", labelWidth, s.Labels[i], strings.Repeat("█", n), v)
	}
	if _, err := io.WriteString(r.W, b.String()); err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", title, err)
	}
	return &textChart{}, nil
}
