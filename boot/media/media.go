// Package media searches mounted local storage for boot images.
//
// The set of mounted volumes is a [DeviceList]. It is rebuilt by a [Mounter]
// in every iteration of the boot loop, so removable media inserted late is
// still found.
package media

import (
	"errors"
	"io/fs"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot/image"
)

// Volume is a mounted filesystem.
type Volume interface {
	// Name returns the device name, e.g. "uda0:".
	Name() string
	ReadFile(name string) ([]byte, error)
}

// DeviceList is the set of currently mounted volumes.
type DeviceList []Volume

// Names returns the names of all volumes.
func (l DeviceList) Names() []string {
	names := make([]string, len(l))
	for i, v := range l {
		names[i] = v.Name()
	}
	return names
}

// Mounter (re)mounts all local storage.
type Mounter interface {
	MountAll() DeviceList
}

// Source looks for images on local media and launches the first valid one.
type Source struct {
	Launcher image.Launcher
}

// Boot tries every candidate name on every volume and launches the first
// valid image. On the console a successful launch never returns.
func (s *Source) Boot(devices DeviceList) error {
	for _, v := range devices {
		for _, name := range image.Candidates {
			data, err := v.ReadFile(name)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					glog.V(2).Infof("%s%s: %v", v.Name(), name, err)
				}
				continue
			}

			img, err := image.Parse(v.Name()+name, data)
			if err != nil {
				glog.Warningf("%v", err)
				continue
			}

			glog.Infof("launching %s", img.Name)
			if err := s.Launcher.Launch(img); err != nil {
				glog.Warningf("%s: %v", img.Name, err)
				continue
			}
			return nil

		}
	}
	return image.ErrNoImage
}
