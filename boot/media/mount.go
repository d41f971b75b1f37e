package media

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
)

// ImageDir mounts the entries of a host directory. Subdirectories become Dir
// volumes, files become Ext4 or Disk volumes depending on their content. It
// stands in for the USB, SATA and optical drives of the console.
type ImageDir struct {
	Root string
}

func (m *ImageDir) MountAll() DeviceList {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		glog.V(1).Infof("mount: %v", err)
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var devices DeviceList
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(m.Root, e.Name())
		name := e.Name() + ":"
		switch {
		case e.IsDir():
			devices = append(devices, NewDir(name, p))
		case isExt4(p):
			devices = append(devices, NewExt4(name, p))
		default:
			devices = append(devices, NewDisk(name, p))
		}
	}
	glog.V(1).Infof("mounted %v", devices.Names())
	return devices
}

const (
	ext4MagicOffset = 0x438
	ext4Magic       = 0xef53
)

func isExt4(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return hasExt4Magic(f)
}

func hasExt4Magic(r io.ReaderAt) bool {
	var b [2]byte
	if _, err := r.ReadAt(b[:], ext4MagicOffset); err != nil {
		return false
	}
	return binary.LittleEndian.Uint16(b[:]) == ext4Magic
}
