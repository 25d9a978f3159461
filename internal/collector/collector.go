// Package collector builds descriptor trees for loaded tests without running
// them, and seeds their states from a run journal.
package collector

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/journal"
	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// RootName is the test ID of the synthetic run descriptor of a collection.
const RootName = "Root"

// Walker reports the structure of tests as nested start/stop events without
// running them. runner.Engine implements it.
type Walker interface {
	Collect(tests []core.Test, l core.Listener)
}

type Collector struct {
	walker Walker
	log    *logrus.Logger
}

func New(walker Walker, log *logrus.Logger) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{walker: walker, log: log}
}

// Collect builds one descriptor per test and suite below tests, all in the
// UNKNOWN state, under a RUN descriptor named RootName.
func (c *Collector) Collect(tests []core.Test) *descriptor.Descriptor {
	b := &treeBuilder{stack: []*descriptor.Descriptor{descriptor.NewRun(RootName)}}
	c.walker.Collect(tests, b)

	root := b.stack[0]
	c.log.Tracef("Collected %d test(s)", len(root.Leaves()))
	return root
}

// Merge seeds every descriptor below root with the state of the last journal
// entry of its test, then recomputes every composite descriptor from its
// children. A nil reader means there is no history: states are left as they
// are.
func (c *Collector) Merge(root *descriptor.Descriptor, r journal.Reader) error {
	if r != nil {
		var err error
		root.Walk(func(d *descriptor.Descriptor) {
			if err != nil || d == root {
				return
			}

			var e *journal.Entry
			e, err = r.Last(d.TestID())
			if err != nil {
				err = fmt.Errorf("failed to read history of '%s': %w", d.TestID(), err)
				return
			}
			if e != nil {
				d.SetState(e.DescriptorState())
			}
		})
		if err != nil {
			return err
		}
	} else {
		c.log.Debug("No journal, descriptors keep their current state")
	}

	// Seeding visits parents before children and can leave aggregates stale.
	root.RecomputeBottomUp()
	return nil
}

// treeBuilder nests a descriptor per started test under the innermost test
// still open.
type treeBuilder struct {
	core.BaseListener
	stack []*descriptor.Descriptor
}

func (b *treeBuilder) StartTest(t core.Test) {
	d := descriptor.New(t.ID(), core.StateUnknown, descriptor.TypeOf(t))
	b.stack[len(b.stack)-1].AddChild(d)
	b.stack = append(b.stack, d)
}

func (b *treeBuilder) StopTest(core.Test) {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}
