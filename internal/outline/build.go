package outline

import (
	"fmt"

	"github.com/jsonpad/jsonpad/internal/model"
)

// DefaultBatchSize is the number of nodes an incremental build step
// processes before yielding back to the event loop.
const DefaultBatchSize = 300

// Build traverses the whole document in one pass and returns the
// outline root plus the path→position index over buffer.
func Build(v *model.Value, buffer string) (*Node, *Index) {
	b := NewBuilder(v, buffer)
	for !b.Step(1 << 20) {
	}
	return b.Root(), b.Index()
}

// workItem is a pending subtree: attach value's children under parent.
type workItem struct {
	parent *Node
	value  *model.Value
	path   string
}

// Builder expands the outline in fixed-size batches so large documents
// never block the event loop. Cancellation is by abandonment: dropping
// the Builder drops all pending work.
type Builder struct {
	root  *Node
	index *Index
	stack []workItem
	done  bool
}

// NewBuilder prepares an incremental build of v's outline. buffer is
// the raw document text used for position indexing.
func NewBuilder(v *model.Value, buffer string) *Builder {
	root := &Node{Expanded: true}
	b := &Builder{root: root, index: newIndex(buffer)}
	if v != nil {
		b.stack = append(b.stack, workItem{parent: root, value: v, path: ""})
	} else {
		b.done = true
	}
	return b
}

// Step processes up to batch nodes. It returns true when the build is
// complete.
func (b *Builder) Step(batch int) bool {
	for i := 0; i < batch; i++ {
		if len(b.stack) == 0 {
			b.done = true
			return true
		}
		item := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.expand(item)
	}
	b.done = len(b.stack) == 0
	return b.done
}

// Done reports whether the build has finished.
func (b *Builder) Done() bool { return b.done }

// Root returns the outline root. Valid at any point; incomplete
// subtrees simply have no children yet.
func (b *Builder) Root() *Node { return b.root }

// Index returns the path→position index built so far.
func (b *Builder) Index() *Index { return b.index }

func (b *Builder) expand(item workItem) {
	switch item.value.Kind {
	case model.KindObject:
		n := item.value.Obj.Len()
		children := make([]*Node, 0, n)
		type pending struct {
			node  *Node
			value *model.Value
		}
		order := make([]pending, 0, n)
		for p := item.value.Obj.Oldest(); p != nil; p = p.Next() {
			path := joinKey(item.path, p.Key)
			child := &Node{Label: p.Key, Path: path}
			children = append(children, child)
			b.index.record(path, p.Key)
			order = append(order, pending{node: child, value: p.Value})
		}
		item.parent.Children = children
		// Push in reverse so the first child is processed first and
		// top-of-tree entries appear before deeper ones.
		for i := len(order) - 1; i >= 0; i-- {
			if isContainer(order[i].value) {
				b.stack = append(b.stack, workItem{parent: order[i].node, value: order[i].value, path: order[i].node.Path})
			}
		}
	case model.KindArray:
		children := make([]*Node, len(item.value.Arr))
		for i := range item.value.Arr {
			children[i] = &Node{
				Label: fmt.Sprintf("[%d]", i),
				Path:  fmt.Sprintf("%s[%d]", item.path, i),
			}
		}
		item.parent.Children = children
		for i := len(item.value.Arr) - 1; i >= 0; i-- {
			if isContainer(item.value.Arr[i]) {
				b.stack = append(b.stack, workItem{parent: children[i], value: item.value.Arr[i], path: children[i].Path})
			}
		}
	}
}

func isContainer(v *model.Value) bool {
	return v.IsObject() || v.IsArray()
}

func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
