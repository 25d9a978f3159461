package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
)

// PrintTree renders d and its descendants with their states.
func PrintTree(w io.Writer, d *descriptor.Descriptor) error {
	root := gtree.NewRoot(treeLabel(d))
	addDescriptors(root, d)
	return gtree.OutputFromRoot(w, root)
}

func addDescriptors(parent *gtree.Node, d *descriptor.Descriptor) {
	for _, c := range d.Children() {
		addDescriptors(parent.Add(treeLabel(c)), c)
	}
}

func treeLabel(d *descriptor.Descriptor) string {
	id := d.TestID()
	if i := strings.LastIndex(id, "."); i >= 0 {
		id = id[i+1:]
	}
	return fmt.Sprintf("%s [%s]", id, d.State().ColorString())
}

// PrintVersions renders the product/variant hierarchy of v.
func PrintVersions(w io.Writer, title string, v *descriptor.VersionDescriptor) error {
	root := gtree.NewRoot(title)
	addVersions(root, v)
	return gtree.OutputFromRoot(w, root)
}

func addVersions(parent *gtree.Node, v *descriptor.VersionDescriptor) {
	for _, c := range v.Children {
		addVersions(parent.Add(c.Name), c)
	}
}
