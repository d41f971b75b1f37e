package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/xenon-boot/xell/boot/image"
)

// hostLauncher describes the image it is handed and exits, standing in for
// the jump into the kernel.
type hostLauncher struct{}

func (hostLauncher) Launch(img *image.Image) error {
	fmt.Printf("\n * Launching %s, entry %#x\n", img.Name, img.Entry)
	for _, s := range img.Segments {
		fmt.Printf("   load %#08x %d bytes\n", s.Paddr, len(s.Data))
	}
	glog.Flush()
	os.Exit(0)
	return nil
}
