package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/dsoprea/go-ext4"
)

// Dir is a volume backed by a host directory.
type Dir struct {
	name string
	fsys fs.FS
}

func NewDir(name, root string) *Dir {
	return &Dir{name: name, fsys: os.DirFS(root)}
}

func (d *Dir) Name() string { return d.name }

func (d *Dir) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(d.fsys, name)
}

// Disk is a volume backed by a FAT32 or ISO9660 disk image. The image is
// opened on every read so it can be replaced between loop iterations.
type Disk struct {
	name string
	path string
}

func NewDisk(name, path string) *Disk {
	return &Disk{name: name, path: path}
}

func (d *Disk) Name() string { return d.name }

func (d *Disk) ReadFile(name string) ([]byte, error) {
	disk, err := diskfs.Open(d.path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, err
	}
	defer disk.File.Close()

	fsys, err := disk.GetFilesystem(0) // whole disk, no partition table
	if err != nil {
		return nil, err
	}
	if ok, err := hasFile(fsys, name); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}

	f, err := fsys.OpenFile(path.Join("/", name), os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// hasFile looks name up in the root directory. FAT short names are matched
// case insensitively, ISO9660 version suffixes are ignored.
func hasFile(fsys filesystem.FileSystem, name string) (bool, error) {
	entries, err := fsys.ReadDir("/")
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(strings.TrimSuffix(e.Name(), ";1"), name) {
			return true, nil
		}
	}
	return false, nil
}

// Ext4 is a volume backed by an ext4 partition image.
type Ext4 struct {
	name string
	path string
}

func NewExt4(name, path string) *Ext4 {
	return &Ext4{name: name, path: path}
}

func (e *Ext4) Name() string { return e.name }

func (e *Ext4) ReadFile(name string) ([]byte, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readExt4(f, name)
}

func blockGroupDescriptor(rs io.ReadSeeker, inode int) (*ext4.BlockGroupDescriptor, error) {
	if _, err := rs.Seek(ext4.Superblock0Offset, io.SeekStart); err != nil {
		return nil, err
	}
	sb, err := ext4.NewSuperblockWithReader(rs)
	if err != nil {
		return nil, err
	}
	bgdl, err := ext4.NewBlockGroupDescriptorListWithReadSeeker(rs, sb)
	if err != nil {
		return nil, err
	}
	return bgdl.GetWithAbsoluteInode(inode)
}

// readExt4 walks the directory tree from the root inode until it finds name.
func readExt4(rs io.ReadSeeker, name string) ([]byte, error) {
	bgd, err := blockGroupDescriptor(rs, ext4.InodeRootDirectory)
	if err != nil {
		return nil, err
	}
	dw, err := ext4.NewDirectoryWalk(rs, bgd, ext4.InodeRootDirectory)
	if err != nil {
		return nil, err
	}

	inodeNumber := 0
	for {
		p, de, err := dw.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		if p == name {
			inodeNumber = int(de.Data().Inode)
			break
		}
	}
	if inodeNumber == 0 {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}

	bgd, err = blockGroupDescriptor(rs, inodeNumber)
	if err != nil {
		return nil, err
	}
	inode, err := ext4.NewInodeWithReadSeeker(bgd, rs, inodeNumber)
	if err != nil {
		return nil, err
	}
	en := ext4.NewExtentNavigatorWithReadSeeker(rs, inode)
	return io.ReadAll(ext4.NewInodeReader(en))
}
