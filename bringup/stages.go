package bringup

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/bootcfg"
	"github.com/xenon-boot/xell/config"
	"github.com/xenon-boot/xell/console"
	"github.com/xenon-boot/xell/diag"
	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/timebase"
)

// Stage names.
const (
	StageANABefore   = "ana-before"
	StageTimebase    = "timebase"
	StagePreinit     = "irq-preinit"
	StageVideo       = "video"
	StageANAAfter    = "ana-after"
	StageConsole     = "console"
	StageSound       = "sound"
	StageNAND        = "nand"
	StageBootConfig  = "bootcfg"
	StageNetwork     = "network"
	StageUSB         = "usb"
	StageHDD         = "sata-hdd"
	StageDVD         = "sata-dvd"
	StageMount       = "mount"
	StageCPU         = "cpu"
	StagePrintConfig = "print-config"
)

// Stages returns the bring-up stages of the console in their fixed order.
func Stages(p *Platform) []Stage {
	reporter := diag.NewReporter(p.OTP, p.SMC)

	return []Stage{{
		Name:    StageANABefore,
		Applies: func(s *State) bool { return s.Config.CalibrationDump },
		Action: func(s *State) error {
			return dumpANA(early(p), reporter, "ANA Dump before Init:")
		},
	}, {
		Name: StageTimebase,
		Action: func(s *State) error {
			return timebase.New(p.Bus, p.Threads, p.CPU).Synchronize()
		},
		Policy: Abort,
	}, {
		Name: StagePreinit,
		Action: func(s *State) error {
			soc.PreinitInterrupts(p.Bus)
			return nil
		},
	}, {
		Name: StageVideo,
		Action: func(s *State) error {
			s.Revision = p.SMC.ConsoleType()
			p.SMC.StartBootAnim()
			return p.Video.Init()
		},
		Policy: Abort,
	}, {
		Name:    StageANAAfter,
		Applies: func(s *State) bool { return s.Config.CalibrationDump },
		Action: func(s *State) error {
			return dumpANA(early(p), reporter, "ANA Dump after Init:")
		},
	}, {
		Name: StageConsole,
		Action: func(s *State) error {
			d, err := p.Terminal.Init()
			if err != nil {
				return err
			}
			s.Console = console.New(d, s.Config.Theme)
			s.Console.Banner(config.Version)
			return nil
		},
		Policy: Abort,
	}, {
		Name: StageSound,
		Action: func(s *State) error {
			p.Sound.Init()
			return nil
		},
	}, {
		Name:    StageNAND,
		Applies: func(s *State) bool { return s.Revision.HasFlashController() },
		Action: func(s *State) error {
			s.Console.Status("nand init")
			if !p.Flash.Init() {
				return fmt.Errorf("sfcx: %w", ErrNotInitialized)
			}
			return nil
		},
		Policy: Degrade,
		Warning: []string{
			"sfcx initialization failure",
			"nand related features will not be available",
		},
	}, {
		Name: StageBootConfig,
		Action: func(s *State) error {
			if s.IsDegraded(StageNAND) {
				return fmt.Errorf("flash: %w", ErrNotInitialized)
			}
			rec, err := bootcfg.Load(p.Flash.Config())
			if err != nil {
				return err
			}
			s.BootConfig = rec
			return nil
		},
	}, {
		Name:    StageNetwork,
		Applies: func(s *State) bool { return s.Config.Network },
		Action: func(s *State) error {
			c := s.Console
			c.Status("network init")
			p.Network.Init(s.BootConfig.MAC)

			c.Use(console.Accent)
			c.Printf(" * starting httpd server...")
			err := p.BootService.Start(s.Config.BootServiceAddr)
			if err != nil {
				c.Printf("failed\n")
			} else {
				c.Printf("success\n")
			}
			c.Use(console.Base)
			return err
		},
	}, {
		Name: StageUSB,
		Action: func(s *State) error {
			s.Console.Status("usb init")
			p.USB.Init()
			p.USB.Poll()
			return nil
		},
	}, {
		Name: StageHDD,
		Action: func(s *State) error {
			s.Console.Status("sata hdd init")
			p.HDD.Init()
			return nil
		},
	}, {
		Name:    StageDVD,
		Applies: func(s *State) bool { return s.Config.Optical },
		Action: func(s *State) error {
			s.Console.Status("sata dvd init")
			p.DVD.Init()
			return nil
		},
	}, {
		Name: StageMount,
		Action: func(s *State) error {
			s.Devices = p.Media.MountAll()
			// Advisory only.
			glog.Infof("devices: %v", s.Devices.Names())
			return nil
		},
	}, {
		Name: StageCPU,
		Action: func(s *State) error {
			s.Console.Use(console.Accent)
			defer s.Console.Use(console.Base)
			return diag.ReportCPU(s.Console, uint32(p.CPU.MoveFromSPR(soc.PVR)))
		},
	}, {
		Name:    StagePrintConfig,
		Applies: func(s *State) bool { return s.Config.PrintConfig },
		Action: func(s *State) error {
			c := s.Console
			c.Status("FUSES - write them down and keep them safe:")

			c.Use(console.Value)
			err := reporter.ReportFuses(c)
			if err == nil && p.Keys != nil {
				err = diag.ReportKeys(c, p.Keys)
			}
			c.Use(console.Base)

			if s.Config.Network {
				p.Network.PrintConfig(c)
			}
			return err
		},
	}}
}

func dumpANA(w io.Writer, r *diag.Reporter, header string) error {
	if _, err := io.WriteString(w, header+"\n"); err != nil {
		return err
	}
	return r.ReportCalibration(w)
}
