// Package devops prints Azure DevOps logging commands.
package devops

import (
	"fmt"
	"io"
	"sync"
)

// Printer writes logging commands to one output. Groups function as a stack,
// so the printer keeps track of the open groups.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	groups []*Group
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

type Group struct {
	p *Printer
}

// Opens a new group and adds it to the stack.
func (p *Printer) OpenGroup(name string) *Group {
	p.mu.Lock()
	defer p.mu.Unlock()

	g := &Group{p: p}
	p.groups = append(p.groups, g)
	fmt.Fprintf(p.out, "##[group]%s\n", name)
	return g
}

// Closes the group and every group opened after it. Closing a group that is
// no longer open does nothing.
func (g *Group) Close() {
	p := g.p
	p.mu.Lock()
	defer p.mu.Unlock()

	index := -1
	for i, open := range p.groups {
		if open == g {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}

	for range p.groups[index:] {
		fmt.Fprintln(p.out, "##[endgroup]")
	}
	p.groups = p.groups[:index]
}

func (p *Printer) LogError(msg string, a ...any) {
	p.logIssue("error", msg, a...)
}

func (p *Printer) LogWarning(msg string, a ...any) {
	p.logIssue("warning", msg, a...)
}

func (p *Printer) logIssue(kind, msg string, a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "##vso[task.logissue type=%s]%s\n", kind, fmt.Sprintf(msg, a...))
}
