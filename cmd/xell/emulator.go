package main

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/bringup"
	"github.com/xenon-boot/xell/config"
	"github.com/xenon-boot/xell/console"
	"github.com/xenon-boot/xell/httpd"
	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

// emulator stands in for the console drivers on the host. Fuses, keys and
// calibration data are derived from the revision so they stay stable between
// runs.
type emulator struct {
	rev     bringup.Revision
	bus     soc.Bus
	threads *thread.Sim
	seed    [32]byte
	media   media.Mounter

	net network
}

func newEmulator(rev bringup.Revision, bus soc.Bus, threads *thread.Sim) *emulator {
	return &emulator{
		rev:     rev,
		bus:     bus,
		threads: threads,
		seed:    sha256.Sum256([]byte("xenon/" + rev.String())),
	}
}

func (e *emulator) platform(m media.Mounter) *bringup.Platform {
	e.media = m
	return &bringup.Platform{
		Early:       os.Stderr,
		Bus:         e.bus,
		Threads:     e.threads,
		SMC:         e,
		Video:       video{},
		Terminal:    terminal{},
		Sound:       driver("sound"),
		Flash:       &flash{path: *flashFile},
		Network:     &e.net,
		BootService: httpd.NewServer(config.Version, e, e),
		USB:         e,
		HDD:         driver("sata hdd"),
		DVD:         driver("sata dvd"),
		Media:       m,
		CPU:         e.threads.Local(),
		OTP:         e,
		Keys:        e,
	}
}

func (e *emulator) StartBootAnim()                { glog.V(1).Info("smc: boot animation") }
func (e *emulator) ConsoleType() bringup.Revision { return e.rev }
func (e *emulator) CPUKey() (k [16]byte)          { copy(k[:], e.seed[:16]); return }
func (e *emulator) DVDKey() (k [16]byte)          { copy(k[:], e.seed[16:]); return }
func (e *emulator) Init()                         { glog.V(1).Info("usb: init") }
func (e *emulator) Poll()                         {}
func (e *emulator) BootServer() string            { return e.net.BootServer() }

func (e *emulator) ReadLine(n int) uint64 {
	return binary.BigEndian.Uint64(e.seed[n%4*8:]) ^ uint64(n)
}

func (e *emulator) ReadANA(reg uint8) (uint32, error) {
	return binary.BigEndian.Uint32(e.seed[reg%8*4:]) + uint32(reg), nil
}

type video struct{}

func (video) Init() error { return nil }

type terminal struct{}

func (terminal) Init() (console.Display, error) {
	var d console.Display = console.NewANSI(os.Stdout)
	if *cp437 {
		d = console.NewCP437(d)
	}
	return d, nil
}

// driver has nothing to initialize on the host.
type driver string

func (d driver) Init() { glog.V(1).Infof("%s: init", string(d)) }

// flash reads the config area from a host file. A missing file is a flash
// controller that failed to initialize.
type flash struct {
	path string
	f    *os.File
}

func (fl *flash) Init() bool {
	if fl.path == "" {
		return false
	}
	f, err := os.Open(fl.path)
	if err != nil {
		glog.Warningf("flash: %v", err)
		return false
	}
	fl.f = f
	return true
}

func (fl *flash) Config() io.ReaderAt {
	if fl.f == nil {
		return emptyArea{}
	}
	return fl.f
}

type emptyArea struct{}

func (emptyArea) ReadAt(p []byte, off int64) (int, error) { return 0, io.EOF }

type network struct {
	mac net.HardwareAddr
}

func (n *network) Init(mac net.HardwareAddr) {
	n.mac = mac
	glog.Infof("network: mac %v", mac)
}

func (n *network) BootServer() string { return *tftpServer }

func (n *network) PrintConfig(w io.Writer) {
	fmt.Fprintf(w, " MAC: %v\n TFTP server: %s\n", n.mac, *tftpServer)
}
