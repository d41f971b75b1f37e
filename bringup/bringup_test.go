package bringup_test

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/xenon-boot/xell/boot/media"
	"github.com/xenon-boot/xell/bootcfg"
	"github.com/xenon-boot/xell/bringup"
	"github.com/xenon-boot/xell/config"
	"github.com/xenon-boot/xell/console"
	"github.com/xenon-boot/xell/soc"
	"github.com/xenon-boot/xell/soc/thread"
)

// fake implements every driver of the platform and records the calls made.
type fake struct {
	rev       bringup.Revision
	flashOK   bool
	videoErr  error
	serverErr error

	calls  []string
	screen bytes.Buffer
	uart   bytes.Buffer
}

func (f *fake) call(name string) { f.calls = append(f.calls, name) }

// SMC
func (f *fake) StartBootAnim()                    { f.call("bootanim") }
func (f *fake) ConsoleType() bringup.Revision     { return f.rev }
func (f *fake) ReadANA(reg uint8) (uint32, error) { return uint32(reg), nil }

// OTP
func (f *fake) ReadLine(n int) uint64 { return uint64(n) }

type video struct{ *fake }

func (v video) Init() error { v.call("video"); return v.videoErr }

type terminal struct{ *fake }

func (t terminal) Init() (console.Display, error) { t.call("console"); return display{&t.screen}, nil }

type display struct{ io.Writer }

func (display) SetColors(bg, fg color.Color) {}
func (display) ClearLine()                   {}

type named struct {
	*fake
	name string
}

func (n named) Init() { n.call(n.name) }

type flash struct{ *fake }

func (fl flash) Init() bool { fl.call("nand"); return fl.flashOK }
func (fl flash) Config() io.ReaderAt {
	rec := bootcfg.Record{MAC: net.HardwareAddr{0, 0x1d, 0xd8, 1, 2, 3}, Region: bootcfg.RegionPAL}
	b, _ := rec.MarshalBinary()
	return bytes.NewReader(b)
}

type network struct{ *fake }

func (n network) Init(mac net.HardwareAddr) { n.call("network " + mac.String()) }
func (n network) BootServer() string        { return "" }
func (n network) PrintConfig(w io.Writer)   { n.call("netconfig") }

type service struct{ *fake }

func (s service) Start(addr string) error { s.call("httpd " + addr); return s.serverErr }

type usb struct{ *fake }

func (u usb) Init() { u.call("usb init") }
func (u usb) Poll() { u.call("usb poll") }

type mounter struct{ *fake }

func (m mounter) MountAll() media.DeviceList { m.call("mount"); return nil }

func (f *fake) platform() *bringup.Platform {
	threads := thread.NewSim(0x710800)
	return &bringup.Platform{
		Early:       &f.uart,
		Bus:         soc.NewSim(),
		Threads:     threads,
		SMC:         f,
		Video:       video{f},
		Terminal:    terminal{f},
		Sound:       named{f, "sound"},
		Flash:       flash{f},
		Network:     network{f},
		BootService: service{f},
		USB:         usb{f},
		HDD:         named{f, "hdd"},
		DVD:         named{f, "dvd"},
		Media:       mounter{f},
		CPU:         threads.Local(),
		OTP:         f,
	}
}

func run(t *testing.T, f *fake, cfg config.Config) (*bringup.State, []time.Duration) {
	t.Helper()
	var slept []time.Duration
	seq := bringup.New(f.platform())
	seq.Sleep = func(d time.Duration) { slept = append(slept, d) }
	s, err := seq.Run(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s, slept
}

func TestRunOrder(t *testing.T) {
	f := &fake{rev: bringup.RevJasper, flashOK: true}
	s, slept := run(t, f, config.Default())

	want := []string{
		"bootanim", "video", "console", "sound", "nand",
		"network 00:1d:d8:01:02:03", "httpd :80",
		"usb init", "usb poll", "hdd", "dvd", "mount", "netconfig",
	}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
	if len(slept) != 0 || len(s.Degraded) != 0 {
		t.Errorf("healthy run degraded %v, slept %v", s.Degraded, slept)
	}
	if s.BootConfig.Region != bootcfg.RegionPAL {
		t.Errorf("boot config not loaded: %+v", s.BootConfig)
	}

	screen := f.screen.String()
	for _, line := range []string{
		" * nand init\n",
		" * network init\n",
		" * starting httpd server...success\n",
		" * usb init\n",
		" * sata hdd init\n",
		" * sata dvd init\n",
		" * CPU PVR: 00710800\n",
		" * FUSES - write them down and keep them safe:\n",
		"fuseset 11: 000000000000000B\n",
	} {
		if !strings.Contains(screen, line) {
			t.Errorf("screen lacks %q", line)
		}
	}
	if f.uart.Len() != 0 {
		t.Errorf("ANA dumped without being configured:\n%s", f.uart.String())
	}
}

// bootThread records when the boot thread resets its time base.
type bootThread struct {
	*soc.SimSPRs
	f *fake
}

func (b bootThread) MoveToSPR(spr soc.SPR, v uint64) {
	if spr == soc.TBUW {
		b.f.call("reset 0")
	}
	b.SimSPRs.MoveToSPR(spr, v)
}

func TestRunTimebaseAndPreinitFirst(t *testing.T) {
	f := &fake{rev: bringup.RevJasper, flashOK: true}
	p := f.platform()

	bus := soc.NewSim()
	bus.OnStore = func(a soc.Access) { f.call(fmt.Sprintf("store %#x=%#x", a.Addr, a.Value)) }
	threads := thread.NewSim(0x710800)
	threads.OnDone = func(id thread.ID) { f.call(fmt.Sprintf("reset %d", id)) }
	p.Bus, p.Threads, p.CPU = bus, threads, bootThread{threads.SPRs[0], f}

	seq := bringup.New(p)
	seq.Sleep = nil
	if _, err := seq.Run(config.Default()); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"store 0x200611a0=0x0",
		"reset 1", "reset 2", "reset 3", "reset 4", "reset 5",
		"reset 0",
		"store 0x200611a0=0x1ff",
		"store 0xea00106c=0x1000000",
		"store 0xea001064=0x10",
		"store 0xea00105c=0xc000000",
		"bootanim", "video", "console",
	}
	if len(f.calls) < len(want) {
		t.Fatalf("got calls %v", f.calls)
	}
	if diff := cmp.Diff(want, f.calls[:len(want)]); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
	for id, spr := range threads.SPRs {
		if tb := soc.Timebase(spr); tb != 0 {
			t.Errorf("thread %d: time base %#x after bring-up", id, tb)
		}
	}
}

func TestRunFlashlessRevision(t *testing.T) {
	f := &fake{rev: bringup.RevCoronaPhison}
	s, slept := run(t, f, config.Default())

	for _, c := range f.calls {
		if c == "nand" {
			t.Fatal("flash controller initialized on a revision without one")
		}
	}
	if strings.Contains(f.screen.String(), " ! ") || strings.Contains(f.screen.String(), "nand init") {
		t.Errorf("nand output on a revision without flash controller:\n%s", f.screen.String())
	}
	if len(slept) != 0 {
		t.Errorf("slept %v", slept)
	}
	want := []string{bringup.StageANABefore, bringup.StageANAAfter, bringup.StageNAND}
	if diff := cmp.Diff(want, s.Skipped); diff != "" {
		t.Errorf("skipped stages (-want +got):\n%s", diff)
	}
}

func TestRunFlashFailure(t *testing.T) {
	f := &fake{rev: bringup.RevFalcon, flashOK: false}
	s, slept := run(t, f, config.Default())

	var warnings []string
	for _, l := range strings.Split(f.screen.String(), "\n") {
		if strings.HasPrefix(l, " ! ") {
			warnings = append(warnings, l)
		}
	}
	want := []string{
		" ! sfcx initialization failure",
		" ! nand related features will not be available",
	}
	if diff := cmp.Diff(want, warnings); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]time.Duration{5 * time.Second}, slept); diff != "" {
		t.Errorf("delays (-want +got):\n%s", diff)
	}
	if !s.IsDegraded(bringup.StageNAND) {
		t.Errorf("nand not degraded: %v", s.Degraded)
	}
	if !strings.Contains(f.screen.String(), " * network init\n") {
		t.Error("bring-up did not continue to the network stage")
	}
}

func TestRunNetworkDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Network = false

	f := &fake{rev: bringup.RevTrinity, flashOK: true}
	run(t, f, cfg)

	for _, c := range f.calls {
		if strings.HasPrefix(c, "network") || strings.HasPrefix(c, "httpd") || c == "netconfig" {
			t.Errorf("network disabled but %q called", c)
		}
	}
	screen := f.screen.String()
	if strings.Contains(screen, "network init") || strings.Contains(screen, "starting httpd server") {
		t.Errorf("network lines printed:\n%s", screen)
	}
}

func TestRunOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Optical = false
	cfg.PrintConfig = false
	cfg.CalibrationDump = true

	f := &fake{rev: bringup.RevJasper, flashOK: true}
	s, _ := run(t, f, cfg)

	want := []string{bringup.StageDVD, bringup.StagePrintConfig}
	if diff := cmp.Diff(want, s.Skipped); diff != "" {
		t.Errorf("skipped stages (-want +got):\n%s", diff)
	}
	if strings.Contains(f.screen.String(), "fuseset") {
		t.Error("fuses printed")
	}
	uart := f.uart.String()
	if !strings.HasPrefix(uart, "ANA Dump before Init:\n0x00000000, ") ||
		!strings.Contains(uart, "ANA Dump after Init:\n") ||
		strings.Count(uart, "\n") != 2*(1+32) {
		t.Errorf("unexpected ANA dumps:\n%s", uart)
	}
}

func TestRunBootServiceFailure(t *testing.T) {
	f := &fake{rev: bringup.RevJasper, flashOK: true, serverErr: errors.New("address in use")}
	run(t, f, config.Default())

	if !strings.Contains(f.screen.String(), " * starting httpd server...failed\n") {
		t.Errorf("failure not shown:\n%s", f.screen.String())
	}
}

func TestRunVideoAbort(t *testing.T) {
	f := &fake{rev: bringup.RevJasper, videoErr: errors.New("no display")}
	seq := bringup.New(f.platform())
	seq.Sleep = nil

	if _, err := seq.Run(config.Default()); err == nil {
		t.Fatal("bring-up continued without video")
	}
	if diff := cmp.Diff([]string{"bootanim", "video"}, f.calls); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestParseRevision(t *testing.T) {
	for r := bringup.RevUnknown; r <= bringup.RevWinchester; r++ {
		got, err := bringup.ParseRevision(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRevision(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := bringup.ParseRevision("xbox one"); err == nil {
		t.Error("expected error")
	}
}
