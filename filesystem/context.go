package filesystem

import "github.com/hanwen/go-fuse/v2/fuse"

// NodeContext wraps a read-locked [Node] (plus any upstream locks).
// The Node is locked with mu.RLock() so its name, parent and child order stay
// stable while the context is open. Children access uses lock-free xsync.Map
// operations.
// Calling NodeContext.Close() unwinds all unlocking/cleanup callbacks in reverse order.
// Do NOT invoke any locking methods on the raw Node while this context is
// active. Use only the helpers below.
//
// NOTE: NodeContext itself is **not** thread-safe meaning references
// to it should not be shared between goroutines
type NodeContext struct {
	node     *Node
	closeFns []func()
}

// NewNodeContext RLocks the Node and returns a new NodeContext for safe access
func NewNodeContext(node *Node) *NodeContext {
	node.mu.RLock()
	ctx := &NodeContext{node: node}
	ctx.AddClose(node.mu.RUnlock)
	return ctx
}

// Name returns the node's name
func (ctx *NodeContext) Name() string {
	return ctx.node.name
}

// Attr returns a snapshot of the fuse attributes.
func (ctx *NodeContext) Attr() fuse.Attr {
	// brief inode read-lock & release
	return ctx.node.CopyAttr()
}

// IterChildren visits the direct children in listing order.
// Each child is read-locked before fn is invoked and unlocked automatically
// after fn returns.
func (ctx *NodeContext) IterChildren(byName bool, fn func(child *NodeContext)) {
	for _, child := range ctx.node.childrenLocked(byName) {
		nc := NewNodeContext(child)
		fn(nc)
		nc.Close()
	}
}

// AddClose pushes a cleanup callback (e.g., unlock) onto the end of the stack.
func (ctx *NodeContext) AddClose(fn func()) {
	ctx.closeFns = append(ctx.closeFns, fn)
}

// Close unwinds all cleanup callbacks in reverse order.
// Safe to call even if ctx is nil or no locks were acquired; it is
// a no-op in those cases, so you can `defer ctx.Close()` unconditionally.
//
// Example:
//
//	ctx := fs.RootCtx()
//	defer ctx.Close()
func (ctx *NodeContext) Close() {
	if ctx == nil {
		return
	}
	for i := len(ctx.closeFns) - 1; i >= 0; i-- {
		ctx.closeFns[i]()
	}
	ctx.closeFns = nil
}
