package filesystem

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brettbedarf/memvfs"
	"github.com/puzpuzpuz/xsync/v4"
)

type Node struct {
	name     string                    // Name of the node (last part of the path). Protected by mu
	parent   *Node                     // Protected by mu
	order    []string                  // Child names in attach order. Protected by mu
	mu       sync.RWMutex              // Protects the fields above
	children *xsync.Map[string, *Node] // thread-safe map of child nodes by name
	isDel    atomic.Bool
	*Inode
}

// NewNode creates a new detached Node.
//
// NOTE: Parent node is responsible for adding itself to the returned Node's
// Parent ref when linking as its child
func NewNode(name string, inode *Inode) (*Node, error) {
	if inode == nil {
		return nil, errors.New("cannot create node with nil inode")
	}
	return &Node{
		Inode:    inode,
		name:     name,
		children: xsync.NewMap[string, *Node](),
	}, nil
}

// Name returns the node's name
func (n *Node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

// Parent returns the parent node or nil for the root and detached nodes
func (n *Node) Parent() *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// Path returns the path of the node relative from root.
// If the node is the root, returns ""
//
// Returns an error if the node or ancestor is detached or deleted with the path
// up to the first detached or deleted node
func (n *Node) Path() (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.pathLocked()
}

// See [Node.Path]
func (n *Node) pathLocked() (string, error) {
	if n.isDel.Load() {
		return "", fmt.Errorf("deleted node: %s", n.name)
	}
	if n.isRootLocked() {
		return "", nil
	}
	p := n.parent
	// handle detached node
	if p == nil {
		return n.name, fmt.Errorf("detached node: %s", n.name)
	}

	pPath, err := p.Path()
	if pPath == "" {
		// relative from root
		return n.name, err
	}
	return pPath + "/" + n.name, err
}

// AddChild links child under n. Returns [memvfs.ErrExists] if a child with
// the same name is already present; n is left unchanged in that case.
func (n *Node) AddChild(child *Node) error {
	name := child.Name()
	if _, loaded := n.children.LoadOrStore(name, child); loaded {
		return memvfs.ErrExists
	}

	n.mu.Lock()
	n.order = append(n.order, name)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = n
	child.mu.Unlock()

	n.linkChild(time.Now())
	return nil
}

// GetChild returns a child node.
// Safe to call when Node is already locked
func (n *Node) GetChild(name string) (child *Node, ok bool) {
	return n.children.Load(name)
}

// RemoveChild detaches the named child and returns it
func (n *Node) RemoveChild(name string) (*Node, bool) {
	child, exists := n.children.LoadAndDelete(name)
	if !exists {
		return nil, false
	}

	n.mu.Lock()
	if i := slices.Index(n.order, name); i >= 0 {
		n.order = slices.Delete(n.order, i, i+1)
	}
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()

	n.unlinkChild(time.Now())
	return child, true
}

// NumChildren returns the number of direct children
func (n *Node) NumChildren() int {
	return n.children.Size()
}

// Children returns a snapshot of the direct children in attach order, or
// sorted by name when byName is set
func (n *Node) Children(byName bool) []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.childrenLocked(byName)
}

// internal children accessor when Node is already locked
func (n *Node) childrenLocked(byName bool) []*Node {
	names := slices.Clone(n.order)
	if byName {
		slices.Sort(names)
	}
	out := make([]*Node, 0, len(names))
	for _, name := range names {
		if ch, ok := n.children.Load(name); ok {
			out = append(out, ch)
		}
	}
	return out
}

// IsAncestorOf reports whether n is a strict ancestor of other
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) IsDel() bool {
	return n.isDel.Load()
}

// Del marks the node as deleted
func (n *Node) Del() {
	n.isDel.Store(true)
}

func (n *Node) IsRoot() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.isRootLocked()
}

func (n *Node) isRootLocked() bool {
	// cover detached nodes
	return n.parent == nil && n.Ino() == rootIno
}
