// Package config holds the boot configuration. It is fixed at build time:
// the option string in [Options] is injected with
//
//	go build -ldflags "-X 'github.com/xenon-boot/xell/config.Options=-network=false -theme=contrast'"
//
// and parsed once at startup into a single [Config] value, which is then
// handed to bring-up and the boot loop.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/netip"

	"github.com/buildkite/shellwords"
)

// Set by the linker.
var (
	Options string
	Version = "devel"
)

// DefaultFallback is the network boot address tried after the primary TFTP
// server.
var DefaultFallback = netip.AddrFrom4([4]byte{192, 168, 1, 90})

type Config struct {
	Network         bool // network stack and boot service
	Optical         bool // sata dvd init
	PrintConfig     bool // fuses, keys and network settings
	CalibrationDump bool // ANA dump around video init
	Theme           Theme

	// Fallback is the TFTP server tried after the primary server in every
	// iteration of the boot loop.
	Fallback netip.Addr

	// BootServiceAddr is the listen address of the embedded HTTP server.
	BootServiceAddr string
}

// Default returns the configuration of a stock build.
func Default() Config {
	return Config{
		Network:         true,
		Optical:         true,
		PrintConfig:     true,
		CalibrationDump: false,
		Theme:           ThemeDefault,
		Fallback:        DefaultFallback,
		BootServiceAddr: ":80",
	}
}

// Load parses [Options] on top of the defaults.
func Load() (Config, error) {
	return Parse(Options)
}

// Parse parses a shell-quoted option string on top of the defaults.
func Parse(options string) (Config, error) {
	c := Default()

	args, err := shellwords.Split(options)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}

	flags := flag.NewFlagSet("config", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.BoolVar(&c.Network, "network", c.Network, "enable network init and boot service")
	flags.BoolVar(&c.Optical, "optical", c.Optical, "enable sata dvd init")
	flags.BoolVar(&c.PrintConfig, "print-config", c.PrintConfig, "print fuses, keys and network config")
	flags.BoolVar(&c.CalibrationDump, "ana-dump", c.CalibrationDump, "dump ANA calibration registers")
	flags.Var(&c.Theme, "theme", "console theme")
	flags.StringVar(&c.BootServiceAddr, "httpd", c.BootServiceAddr, "boot service listen address")
	flags.Func("fallback", "fallback TFTP server address", func(s string) error {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return err
		}
		if !addr.Is4() {
			return errors.New("fallback must be an IPv4 address")
		}
		c.Fallback = addr
		return nil
	})

	if err := flags.Parse(args); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if flags.NArg() != 0 {
		return c, fmt.Errorf("config: unexpected argument %q", flags.Arg(0))
	}
	return c, nil
}
