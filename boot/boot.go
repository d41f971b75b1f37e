// Package boot implements the boot resolution loop, the final phase of the
// second stage. It asks local media and network boot servers for an image
// over and over again, at a fixed cadence and without giving up. Only a
// successfully launched image ends the loop, by replacing the whole control
// flow.
package boot

import (
	"fmt"
	"net/netip"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/config"
)

// Kind discriminates the variants of Source.
type Kind int

const (
	LocalMedia Kind = iota
	TFTPPrimary
	TFTPFallback
)

// Source is a place an image may be obtained from.
type Source struct {
	Kind Kind
	Addr netip.Addr // TFTPFallback only
}

func (s Source) String() string {
	switch s.Kind {
	case LocalMedia:
		return "local media"
	case TFTPPrimary:
		return "tftp primary"
	case TFTPFallback:
		return "tftp " + s.Addr.String()
	}
	return fmt.Sprintf("Source(%d)", s.Kind)
}

// Sources returns the boot sources for cfg in the order they are tried.
func Sources(cfg config.Config) []Source {
	src := []Source{{Kind: LocalMedia}}
	if cfg.Network {
		src = append(src,
			Source{Kind: TFTPPrimary},
			Source{Kind: TFTPFallback, Addr: cfg.Fallback},
		)
	}
	return src
}

// LocalBooter launches an image from local media. See media.Source.
type LocalBooter interface {
	Boot(devices media.DeviceList) error
}

// NetworkLoader launches an image from a TFTP server. See tftp.Client.
type NetworkLoader interface {
	Load(server string) error
}

// Status is the status line of the console.
type Status interface {
	ClearLine()
	Spin()
}

// Poller keeps the USB stack responsive.
type Poller interface {
	Poll()
}

type Loop struct {
	Local   LocalBooter
	Network NetworkLoader

	// BootServer returns the name of the primary TFTP server, e.g. as
	// obtained by DHCP. It is asked again on every attempt.
	BootServer func() string

	Mounter media.Mounter
	Status  Status
	USB     Poller

	sources   []Source
	devices   media.DeviceList
	iteration uint64
}

// NewLoop returns a loop trying the sources of cfg, starting with the devices
// mounted during bring-up.
func NewLoop(cfg config.Config, devices media.DeviceList) *Loop {
	return &Loop{sources: Sources(cfg), devices: devices}
}

// Run never returns. Control leaves the loop only by launching an image.
func (l *Loop) Run() {
	for {
		l.Iterate()
	}
}

// Iterate tries all sources once, then refreshes the status line and the
// device list. It returns right away if a source launched an image.
func (l *Loop) Iterate() {
	l.iteration++
	for _, src := range l.sources {
		err := l.try(src)
		if err == nil {
			return
		}
		glog.V(2).Infof("iteration %d: %v: %v", l.iteration, src, err)
	}

	l.Status.ClearLine()
	l.devices = l.Mounter.MountAll()
	l.Status.Spin()
	l.USB.Poll()
}

// Devices returns the volumes mounted at the end of the last iteration.
func (l *Loop) Devices() media.DeviceList { return l.devices }

func (l *Loop) try(src Source) error {
	switch src.Kind {
	case LocalMedia:
		return l.Local.Boot(l.devices)
	case TFTPPrimary:
		server := ""
		if l.BootServer != nil {
			server = l.BootServer()
		}
		return l.Network.Load(server)
	case TFTPFallback:
		return l.Network.Load(src.Addr.String())
	}
	return fmt.Errorf("unknown source %v", src)
}
