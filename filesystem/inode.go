package filesystem

import (
	"sync"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
)

// Inode holds the attributes of a directory in fuse wire layout.
// Only directories exist, so Mode is always S_IFDIR and no permission or
// ownership bits are tracked.
type Inode struct {
	// Low-level fuse wire protocol attributes; Only access directly if
	// handling locks manually
	fuseAttr *fuse.Attr
	mu       sync.RWMutex
}

func NewInode(attr *fuse.Attr) *Inode {
	return &Inode{fuseAttr: attr}
}

// Ino returns the inode number
func (n *Inode) Ino() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.fuseAttr.Ino
}

// CopyAttr returns a thread-safe copy of the inode's attributes
func (n *Inode) CopyAttr() fuse.Attr {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return *n.fuseAttr
}

// linkChild records a child directory being attached: its ".." entry adds a
// link and the directory contents changed.
func (n *Inode) linkChild(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fuseAttr.Nlink++
	setMtime(n.fuseAttr, now)
}

// unlinkChild is the inverse of linkChild
func (n *Inode) unlinkChild(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fuseAttr.Nlink > 2 {
		n.fuseAttr.Nlink--
	}
	setMtime(n.fuseAttr, now)
}

// touchCtime marks a metadata change such as the directory being relocated
func (n *Inode) touchCtime(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fuseAttr.Ctime = uint64(now.Unix())
	n.fuseAttr.Ctimensec = uint32(now.Nanosecond())
}

// setMtime updates mtime and ctime. Caller must hold the inode lock.
func setMtime(attr *fuse.Attr, now time.Time) {
	attr.Mtime = uint64(now.Unix())
	attr.Mtimensec = uint32(now.Nanosecond())
	attr.Ctime = attr.Mtime
	attr.Ctimensec = attr.Mtimensec
}

// newDirAttr returns the default attributes for a new, empty directory
func newDirAttr(ino uint64) *fuse.Attr {
	now := time.Now()
	return &fuse.Attr{
		Ino:       ino,
		Mode:      fuse.S_IFDIR,
		Nlink:     2, // "." and the entry in its parent
		Atime:     uint64(now.Unix()),
		Mtime:     uint64(now.Unix()),
		Ctime:     uint64(now.Unix()),
		Atimensec: uint32(now.Nanosecond()),
		Mtimensec: uint32(now.Nanosecond()),
		Ctimensec: uint32(now.Nanosecond()),
	}
}
