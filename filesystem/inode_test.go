package filesystem

import (
	"testing"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
)

func TestNewDirAttr(t *testing.T) {
	t.Parallel()

	attr := newDirAttr(7)

	assert.Equal(t, uint64(7), attr.Ino)
	assert.Equal(t, uint32(fuse.S_IFDIR), attr.Mode, "directories carry no permission bits")
	assert.Equal(t, uint32(2), attr.Nlink)
	assert.Equal(t, attr.Mtime, attr.Ctime)
}

func TestInode_LinkUnlink(t *testing.T) {
	t.Parallel()

	inode := NewInode(newDirAttr(2))
	later := time.Now().Add(time.Hour)

	inode.linkChild(later)
	attr := inode.CopyAttr()
	assert.Equal(t, uint32(3), attr.Nlink)
	assert.Equal(t, uint64(later.Unix()), attr.Mtime)
	assert.Equal(t, uint64(later.Unix()), attr.Ctime)

	inode.unlinkChild(later)
	inode.unlinkChild(later)
	assert.Equal(t, uint32(2), inode.CopyAttr().Nlink, "link count never drops below 2")
}

func TestInode_TouchCtime(t *testing.T) {
	t.Parallel()

	inode := NewInode(newDirAttr(2))
	before := inode.CopyAttr()
	later := time.Now().Add(time.Hour)

	inode.touchCtime(later)

	attr := inode.CopyAttr()
	assert.Equal(t, uint64(later.Unix()), attr.Ctime)
	assert.Equal(t, before.Mtime, attr.Mtime, "mtime untouched")
}

func TestInode_CopyAttrIsSnapshot(t *testing.T) {
	t.Parallel()

	inode := NewInode(newDirAttr(5))
	snap := inode.CopyAttr()
	snap.Ino = 99

	assert.Equal(t, uint64(5), inode.Ino())
}
