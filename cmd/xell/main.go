// Command xell is the second stage loader. Built with -tags xenon it drives
// the console hardware, otherwise it runs against an emulated console: local
// media is a host directory, the flash config area a host file and images
// found are described instead of executed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot"
	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/boot/tftp"
	"github.com/xenon-boot/xell/bringup"
	"github.com/xenon-boot/xell/config"
	"github.com/xenon-boot/xell/console"
	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

var (
	mediaDir   = flag.String("media", "media", "Directory whose entries are mounted as local devices.")
	flashFile  = flag.String("flash", "", "File holding the flash config area. Empty emulates a failing flash controller.")
	tftpServer = flag.String("tftp_server", "", "Boot server announced by DHCP.")
	tftpPort   = flag.String("tftp_port", "69", "UDP port of the TFTP servers.")
	revision   = flag.String("revision", "jasper", "Emulated console revision.")
	cp437      = flag.Bool("cp437", false, "Transcode console output to code page 437.")
)

// PVR of the Xenon CPU.
const pvr = 0x710800

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	rev, err := bringup.ParseRevision(*revision)
	if err != nil {
		glog.Exitf("%v", err)
	}

	launcher := hostLauncher{}
	emu := newEmulator(rev, soc.Default, thread.NewSim(pvr))
	seq := bringup.New(emu.platform(&media.ImageDir{Root: *mediaDir}))
	state, err := seq.Run(cfg)
	if err != nil {
		haltAndCatchFire(fmt.Sprintf("bring-up: %v", err), 1)
	}

	c := state.Console
	c.Use(console.Accent)
	c.Printf("\n * Looking for files on local media and TFTP...\n\n")
	c.Use(console.Base)

	loop := boot.NewLoop(cfg, state.Devices)
	loop.Local = &media.Source{Launcher: launcher}
	if cfg.Network {
		loop.Network = &tftp.Client{Launcher: launcher, Port: *tftpPort}
		loop.BootServer = emu.BootServer
	}
	loop.Mounter = emu.media
	loop.Status = c
	loop.USB = emu
	loop.Run()
}

// haltAndCatchFire reports msg and never returns.
func haltAndCatchFire(msg string, code int) {
	fmt.Fprintln(os.Stderr, msg)
	glog.Flush()
	os.Exit(code)
}
