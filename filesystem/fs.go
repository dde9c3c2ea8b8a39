package filesystem

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brettbedarf/memvfs"
	"github.com/brettbedarf/memvfs/config"
	"github.com/brettbedarf/memvfs/internal/util"
	"github.com/google/uuid"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"
)

const rootIno uint64 = fuse.FUSE_ROOT_ID

// FileSystem is an in-memory directory tree. Every exported operation runs
// under a single mutex so commands never interleave.
type FileSystem struct {
	cfg          *config.Config
	id           uuid.UUID
	root         *Node                     // Root of node tree
	lastIno      atomic.Uint64             // Last fuse Attr.Ino assigned; incremented when new nodes are created
	nodeRegistry *xsync.Map[uint64, *Node] // maps inode numbers to live Nodes
	logger       util.Logger
	mu           sync.Mutex
}

// Entry is one line of a listing. Depth is relative to the listed directory,
// whose direct children have depth 0.
type Entry struct {
	Name  string
	Depth int
	Ino   uint64
}

// Stats summarizes the tree
type Stats struct {
	Dirs    int    // live directories, excluding the root
	LastIno uint64 // last inode number handed out
}

func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	rootNode, _ := NewNode("", NewInode(newDirAttr(rootIno)))

	id := uuid.New()
	fs := FileSystem{
		cfg:          cfg,
		id:           id,
		root:         rootNode,
		nodeRegistry: xsync.NewMap[uint64, *Node](),
		logger:       util.GetLogger("FileSystem").With().Str("fs", id.String()).Logger(),
	}
	fs.lastIno.Store(rootIno)
	fs.nodeRegistry.Store(rootIno, rootNode)
	return &fs
}

// ID returns the instance ID of this tree
func (fs *FileSystem) ID() uuid.UUID {
	return fs.id
}

// Root returns the root node
func (fs *FileSystem) Root() *Node {
	return fs.root
}

func (fs *FileSystem) RootCtx() *NodeContext {
	return NewNodeContext(fs.root)
}

// NodeByIno returns the live node with the given inode number
func (fs *FileSystem) NodeByIno(ino uint64) (*Node, bool) {
	return fs.nodeRegistry.Load(ino)
}

// Stats returns the current tree statistics
func (fs *FileSystem) Stats() Stats {
	return Stats{
		Dirs:    fs.nodeRegistry.Size() - 1,
		LastIno: fs.lastIno.Load(),
	}
}

// Apply runs a single command against the tree. LIST output is written to w.
func (fs *FileSystem) Apply(cmd memvfs.Command, w io.Writer) error {
	fs.logger.Trace().Stringer("cmd", cmd).Msg("Apply called")

	switch cmd.Kind {
	case memvfs.CreateCmd:
		_, err := fs.Create(cmd.Path)
		return err
	case memvfs.ListCmd:
		p := ""
		if cmd.HasPath {
			p = cmd.Path
		}
		entries, err := fs.List(p)
		if err != nil {
			return err
		}
		return WriteHierarchy(w, entries, fs.cfg.IndentWidth)
	case memvfs.MoveCmd:
		return fs.Move(cmd.Path, cmd.Dest)
	case memvfs.DeleteCmd:
		return fs.Delete(cmd.Path)
	default:
		return fmt.Errorf("unsupported command kind %q", cmd.Kind)
	}
}

// Lookup resolves path to an existing node starting at the root
func (fs *FileSystem) Lookup(path string) (*Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lookupLocked("lookup", path, "")
}

func (fs *FileSystem) lookupLocked(op, path string, side memvfs.Side) (*Node, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, &memvfs.PathError{Op: op, Path: path, Side: side, Err: err}
	}
	cur := fs.root
	for _, name := range segs {
		child, ok := cur.GetChild(name)
		if !ok {
			fs.logger.Trace().Str("path", path).Str("missing", name).Msg("Lookup failed")
			return nil, &memvfs.PathError{Op: op, Path: path, Side: side, Err: memvfs.ErrNotFound}
		}
		cur = child
	}
	return cur, nil
}

// Create adds all missing directories in path starting at the root
// and returns the leaf.
// It is equivalent to calling `mkdir -p` from a shell and similarly will only create
// directories that do not already exist and will not error if the leaf already exists.
func (fs *FileSystem) Create(path string) (*Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	segs, err := SplitPath(path)
	if err != nil {
		return nil, &memvfs.PathError{Op: "create", Path: path, Err: err}
	}

	cur := fs.root
	newCnt := 0
	// Traverse the path until we get to existing dir and make
	// any missing along the way
	for _, name := range segs {
		if child, ok := cur.GetChild(name); ok {
			cur = child
			continue
		}
		ino := fs.lastIno.Add(1)
		node, err := NewNode(name, NewInode(newDirAttr(ino)))
		if err != nil {
			return nil, err
		}
		if err := cur.AddChild(node); err != nil {
			return nil, &memvfs.PathError{Op: "create", Path: path, Err: err}
		}
		fs.nodeRegistry.Store(ino, node)
		newCnt++
		cur = node
	}
	if newCnt > 0 {
		fs.logger.Info().Str("path", path).Int("created", newCnt).Msg("Created new dir(s)")
	}
	return cur, nil
}

// List returns the pre-order depth-first traversal of everything below path.
// An empty path lists from the root. The listed directory itself is not
// included.
func (fs *FileSystem) List(path string) ([]Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, err := fs.lookupLocked("list", path, "")
	if err != nil {
		return nil, err
	}

	byName := fs.cfg.ListOrder == config.NameOrder
	entries := make([]Entry, 0)
	ctx := NewNodeContext(node)
	defer ctx.Close()
	walk(ctx, 0, byName, func(nc *NodeContext, depth int) {
		entries = append(entries, Entry{Name: nc.Name(), Depth: depth, Ino: nc.Attr().Ino})
	})
	return entries, nil
}

// walk visits every descendant of ctx in pre-order
func walk(ctx *NodeContext, depth int, byName bool, fn func(nc *NodeContext, depth int)) {
	ctx.IterChildren(byName, func(child *NodeContext) {
		fn(child, depth)
		walk(child, depth+1, byName, fn)
	})
}

// Move relocates src to become a child of dst under its own basename.
// Nothing is changed when the move is rejected.
func (fs *FileSystem) Move(src, dst string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	srcNode, err := fs.lookupLocked("move", src, memvfs.SourceSide)
	if err != nil {
		return err
	}
	if srcNode == fs.root {
		return &memvfs.PathError{Op: "move", Path: src, Side: memvfs.SourceSide, Err: memvfs.ErrInvalidPath}
	}
	dstNode, err := fs.lookupLocked("move", dst, memvfs.DestinationSide)
	if err != nil {
		return err
	}
	if dstNode == srcNode || srcNode.IsAncestorOf(dstNode) {
		return &memvfs.PathError{Op: "move", Path: dst, Side: memvfs.DestinationSide, Err: memvfs.ErrCycle}
	}

	name := srcNode.Name()
	if _, exists := dstNode.GetChild(name); exists {
		return &memvfs.PathError{Op: "move", Path: dst, Side: memvfs.DestinationSide, Err: memvfs.ErrExists}
	}

	parent := srcNode.Parent()
	if _, ok := parent.RemoveChild(name); !ok {
		return fmt.Errorf("move %s: node not linked in its parent", src)
	}
	if err := dstNode.AddChild(srcNode); err != nil {
		// checked above under the same lock; put it back under its old parent
		if rErr := parent.AddChild(srcNode); rErr != nil {
			return errors.Join(err, rErr)
		}
		return &memvfs.PathError{Op: "move", Path: dst, Side: memvfs.DestinationSide, Err: err}
	}
	srcNode.touchCtime(time.Now())

	fs.logger.Debug().Str("src", src).Str("dst", dst).Msg("Moved dir")
	return nil
}

// Delete removes the directory at path together with its entire subtree
func (fs *FileSystem) Delete(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, err := fs.lookupLocked("delete", path, "")
	if err != nil {
		return err
	}
	if node == fs.root {
		return &memvfs.PathError{Op: "delete", Path: path, Err: memvfs.ErrInvalidPath}
	}

	if _, ok := node.Parent().RemoveChild(node.Name()); !ok {
		return fmt.Errorf("delete %s: node not linked in its parent", path)
	}

	removed := fs.forgetSubtree(node)
	fs.logger.Debug().Str("path", path).Int("removed", removed).Msg("Deleted dir(s)")
	return nil
}

// forgetSubtree marks n and all of its descendants deleted and drops them from
// the registry. Returns the number of nodes forgotten.
func (fs *FileSystem) forgetSubtree(n *Node) int {
	cnt := 1
	for _, child := range n.Children(false) {
		cnt += fs.forgetSubtree(child)
	}
	n.Del()
	fs.nodeRegistry.Delete(n.Ino())
	return cnt
}
