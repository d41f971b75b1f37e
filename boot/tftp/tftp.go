// Package tftp fetches boot images from a TFTP server.
package tftp

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
	pintftp "github.com/pin/tftp/v3"

	"github.com/xenon-boot/xell/boot/image"
)

// Client tries the candidate image names on a server and launches the first
// valid image.
type Client struct {
	Launcher image.Launcher

	Port    string        // defaults to "69"
	Timeout time.Duration // per packet, defaults to one second
	Retries int           // per packet
}

func (c *Client) port() string {
	if c.Port == "" {
		return "69"
	}
	return c.Port
}

// Load fetches images from server. It only returns if no image could be
// launched, an empty server name counts as unreachable.
func (c *Client) Load(server string) error {
	if server == "" {
		return image.ErrNoImage
	}

	cl, err := pintftp.NewClient(net.JoinHostPort(server, c.port()))
	if err != nil {
		return fmt.Errorf("tftp %s: %w", server, err)
	}
	if c.Timeout > 0 {
		cl.SetTimeout(c.Timeout)
	} else {
		cl.SetTimeout(time.Second)
	}
	cl.SetRetries(c.Retries)

	for _, name := range image.Candidates {
		data, err := receive(cl, name)
		if err != nil {
			glog.V(2).Infof("tftp %s/%s: %v", server, name, err)
			continue
		}

		img, err := image.Parse("tftp://"+server+"/"+name, data)
		if err != nil {
			glog.Warningf("%v", err)
			continue
		}

		glog.Infof("launching %s", img.Name)
		if err := c.Launcher.Launch(img); err != nil {
			glog.Warningf("%s: %v", img.Name, err)
			continue
		}
		return nil
	}
	return image.ErrNoImage
}

var errTooLarge = errors.New("transfer exceeds image size limit")

// limitedBuffer fails writes beyond image.MaxSize.
type limitedBuffer struct{ bytes.Buffer }

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.Len()+len(p) > image.MaxSize {
		return 0, errTooLarge
	}
	return b.Buffer.Write(p)
}

func receive(cl *pintftp.Client, name string) ([]byte, error) {
	wt, err := cl.Receive(name, "octet")
	if err != nil {
		return nil, err
	}
	var buf limitedBuffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
