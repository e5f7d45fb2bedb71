// Package outline derives a navigable tree of (label, path) nodes from
// a parsed document, together with a best-effort index from paths to
// buffer positions used to sync the outline with the caret.
package outline

// Node is one entry of the outline tree. Path addresses the node inside
// the document: dotted for mapping keys, bracketed for sequence indices
// ("a.b[3].c"). The root node has an empty path and is never displayed.
type Node struct {
	Label    string
	Path     string
	Children []*Node
	Expanded bool
	Depth    int // set during visible-node flattening
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// State tracks cursor and expansion over an outline tree.
type State struct {
	Root   *Node
	cursor []int // index path from root to the selected node
}

// NewState creates navigation state over root, selecting the first node.
func NewState(root *Node) *State {
	s := &State{Root: root}
	if root != nil && len(root.Children) > 0 {
		s.cursor = []int{0}
	}
	return s
}

// Selected returns the currently selected node, or nil.
func (s *State) Selected() *Node {
	if s.Root == nil || len(s.cursor) == 0 {
		return nil
	}
	nodes := s.Root.Children
	var cur *Node
	for i, idx := range s.cursor {
		if idx < 0 || idx >= len(nodes) {
			return nil
		}
		cur = nodes[idx]
		if i < len(s.cursor)-1 {
			nodes = cur.Children
		}
	}
	return cur
}

// Visible returns the flattened list of visible nodes, honoring
// expansion state and recording depths.
func (s *State) Visible() []*Node {
	if s.Root == nil {
		return nil
	}
	var out []*Node
	collectVisible(s.Root.Children, 0, &out)
	return out
}

func collectVisible(nodes []*Node, depth int, out *[]*Node) {
	for _, n := range nodes {
		n.Depth = depth
		*out = append(*out, n)
		if n.Expanded && len(n.Children) > 0 {
			collectVisible(n.Children, depth+1, out)
		}
	}
}

// SelectedIndex returns the selected node's position in Visible().
func (s *State) SelectedIndex() int {
	sel := s.Selected()
	if sel == nil {
		return -1
	}
	for i, n := range s.Visible() {
		if n == sel {
			return i
		}
	}
	return -1
}

// MoveDown selects the next visible node.
func (s *State) MoveDown() bool {
	visible := s.Visible()
	idx := s.SelectedIndex()
	if idx < 0 || idx+1 >= len(visible) {
		return false
	}
	s.selectNode(visible[idx+1])
	return true
}

// MoveUp selects the previous visible node.
func (s *State) MoveUp() bool {
	visible := s.Visible()
	idx := s.SelectedIndex()
	if idx <= 0 {
		return false
	}
	s.selectNode(visible[idx-1])
	return true
}

// Expand expands the selected node. Returns true on a state change.
func (s *State) Expand() bool {
	n := s.Selected()
	if n == nil || n.IsLeaf() || n.Expanded {
		return false
	}
	n.Expanded = true
	return true
}

// Collapse collapses the selected node, or moves to its parent when it
// is already collapsed or a leaf.
func (s *State) Collapse() bool {
	n := s.Selected()
	if n == nil {
		return false
	}
	if n.Expanded && !n.IsLeaf() {
		n.Expanded = false
		return true
	}
	if len(s.cursor) > 1 {
		s.cursor = s.cursor[:len(s.cursor)-1]
		return true
	}
	return false
}

// Toggle flips expansion on the selected node.
func (s *State) Toggle() bool {
	n := s.Selected()
	if n == nil || n.IsLeaf() {
		return false
	}
	n.Expanded = !n.Expanded
	return true
}

// SelectByPath selects the node with the given document path, expanding
// its ancestors so it becomes visible.
func (s *State) SelectByPath(path string) bool {
	if s.Root == nil {
		return false
	}
	target := findByPath(s.Root.Children, path)
	if target == nil {
		return false
	}
	expandTo(s.Root.Children, target)
	s.selectNode(target)
	return true
}

func findByPath(nodes []*Node, path string) *Node {
	for _, n := range nodes {
		if n.Path == path {
			return n
		}
		if found := findByPath(n.Children, path); found != nil {
			return found
		}
	}
	return nil
}

func expandTo(nodes []*Node, target *Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
		if expandTo(n.Children, target) {
			n.Expanded = true
			return true
		}
	}
	return false
}

func (s *State) selectNode(target *Node) {
	if path := indexPath(s.Root.Children, target, nil); path != nil {
		s.cursor = path
	}
}

func indexPath(nodes []*Node, target *Node, prefix []int) []int {
	for i, n := range nodes {
		cur := append(append([]int{}, prefix...), i)
		if n == target {
			return cur
		}
		if len(n.Children) > 0 {
			if found := indexPath(n.Children, target, cur); found != nil {
				return found
			}
		}
	}
	return nil
}
