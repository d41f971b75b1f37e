package bringup

import (
	"fmt"
	"io"
	"net"

	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/console"
	"github.com/xenon-boot/xell/diag"
	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

// Revision is the console hardware revision as reported by the SMC.
type Revision int

const (
	RevUnknown Revision = iota
	RevXenon
	RevZephyr
	RevFalcon
	RevJasper
	RevTrinity
	RevCorona
	RevCoronaPhison // eMMC instead of NAND, no flash controller
	RevWinchester
)

var revisionNames = [...]string{
	RevUnknown:      "unknown",
	RevXenon:        "xenon",
	RevZephyr:       "zephyr",
	RevFalcon:       "falcon",
	RevJasper:       "jasper",
	RevTrinity:      "trinity",
	RevCorona:       "corona",
	RevCoronaPhison: "corona-phison",
	RevWinchester:   "winchester",
}

func (r Revision) String() string {
	if r >= 0 && int(r) < len(revisionNames) {
		return revisionNames[r]
	}
	return fmt.Sprintf("Revision(%d)", int(r))
}

// ParseRevision returns the revision named s.
func ParseRevision(s string) (Revision, error) {
	for r, name := range revisionNames {
		if name == s {
			return Revision(r), nil
		}
	}
	return RevUnknown, fmt.Errorf("unknown revision %q", s)
}

// HasFlashController reports whether the revision boots from NAND behind the
// flash controller.
func (r Revision) HasFlashController() bool {
	return r != RevCoronaPhison
}

// SMC is the system management controller.
type SMC interface {
	diag.Calibration
	StartBootAnim()
	ConsoleType() Revision
}

type Video interface {
	Init() error
}

// Terminal initializes the text console on top of the video output.
type Terminal interface {
	Init() (console.Display, error)
}

// Initializer is a subsystem without an observable failure path.
type Initializer interface {
	Init()
}

// Flash is the NAND flash controller.
type Flash interface {
	// Init reports whether the controller is usable.
	Init() bool
	// Config returns the flash config area.
	Config() io.ReaderAt
}

type Network interface {
	Init(mac net.HardwareAddr)
	// BootServer returns the TFTP server announced by DHCP, if any.
	BootServer() string
	PrintConfig(w io.Writer)
}

// BootService is the embedded HTTP server.
type BootService interface {
	Start(addr string) error
}

type USB interface {
	Init()
	Poll()
}

// Platform is the hardware as seen by bring-up. Keys and Early may be nil.
type Platform struct {
	// Early receives output while there is no console yet.
	Early io.Writer

	// Bus reaches the SoC registers, Threads the secondary hardware threads.
	// CPU is the register file of the boot thread.
	Bus     soc.Bus
	Threads thread.Runner

	SMC         SMC
	Video       Video
	Terminal    Terminal
	Sound       Initializer
	Flash       Flash
	Network     Network
	BootService BootService
	USB         USB
	HDD         Initializer
	DVD         Initializer
	Media       media.Mounter
	CPU         soc.SPRFile
	OTP         diag.OTP
	Keys        diag.Keys
}
