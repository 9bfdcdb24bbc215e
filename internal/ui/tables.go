package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableRenderer draws a list view. name identifies the list.
type TableRenderer interface {
	RenderTable(name string, headers []string, rows [][]string)
}

type StatCard struct {
	Label string
	Value string
}

type CardRenderer interface {
	RenderCards(cards []StatCard)
}

// TabwriterTable renders lists and cards as aligned text.
type TabwriterTable struct {
	W io.Writer
}

func (t TabwriterTable) RenderTable(name string, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(t.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func (t TabwriterTable) RenderCards(cards []StatCard) {
	tw := tabwriter.NewWriter(t.W, 0, 4, 2, ' ', 0)
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\n", c.Label, c.Value)
	}
	_ = tw.Flush()
}

type nopRenderer struct{}

func (nopRenderer) RenderTable(string, []string, [][]string) {}
func (nopRenderer) RenderCards([]StatCard)                   {}
