package descriptor

// VersionDescriptor is a node of the product/variant hierarchy found on
// disk. The synthetic root has an empty name and is not selectable.
type VersionDescriptor struct {
	Name       string
	Selectable bool
	Children   []*VersionDescriptor
}

func NewVersionRoot() *VersionDescriptor {
	return &VersionDescriptor{}
}

// Add appends a selectable child and returns it.
func (v *VersionDescriptor) Add(name string) *VersionDescriptor {
	child := &VersionDescriptor{Name: name, Selectable: true}
	v.Children = append(v.Children, child)
	return child
}

// Flatten returns slash-separated paths to the nodes below v. With
// leavesOnly, only nodes without children are listed. The root's own name is
// part of the paths only when it is not empty.
func (v *VersionDescriptor) Flatten(leavesOnly bool) []string {
	result := make([]string, 0)
	v.flatten(leavesOnly, "", &result)
	return result
}

func (v *VersionDescriptor) flatten(leavesOnly bool, prefix string, result *[]string) {
	current := prefix
	switch {
	case prefix == "":
		current = v.Name
	case v.Name != "":
		current = prefix + "/" + v.Name
	}

	if (!leavesOnly || len(v.Children) == 0) && current != "" && v.Selectable {
		*result = append(*result, current)
	}

	for _, c := range v.Children {
		c.flatten(leavesOnly, current, result)
	}
}

func (v *VersionDescriptor) String() string {
	return v.Name
}
