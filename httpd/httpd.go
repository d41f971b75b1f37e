// Package httpd is the embedded boot service. It serves the console status
// and the diagnostic dumps over HTTP while the boot loop is running.
package httpd

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/xenon-boot/xell/diag"
)

// Server serves the diagnostic pages.
type Server struct {
	version string

	// mu guards reporter, whose fuse buffer is reused by every request.
	mu       sync.Mutex
	reporter *diag.Reporter
}

// NewServer returns a server reading fuses from otp and calibration data
// from ana.
func NewServer(version string, otp diag.OTP, ana diag.Calibration) *Server {
	return &Server{
		version:  version,
		reporter: diag.NewReporter(otp, ana),
	}
}

// RegisterHandlers registers the pages on r.
func (s *Server) RegisterHandlers(r *mux.Router) {
	r.HandleFunc("/", s.index).Methods("GET")
	r.HandleFunc("/FUSE", s.fuses).Methods("GET")
	r.HandleFunc("/ANA", s.calibration).Methods("GET")
}

// Handler returns a router serving all pages.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterHandlers(r)
	return r
}

// Start listens on addr and serves in the background. Only errors setting up
// the listener are returned.
func (s *Server) Start(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpd: %w", err)
	}
	glog.Infof("httpd listening on %s", l.Addr())
	go func() {
		if err := http.Serve(l, s.Handler()); err != nil {
			glog.Errorf("httpd: %v", err)
		}
	}()
	return nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, page, s.version)
}

func (s *Server) fuses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.reporter.ReportFuses(w); err != nil {
		glog.Warningf("httpd: /FUSE: %v", err)
	}
}

func (s *Server) calibration(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.reporter.ReportCalibration(w); err != nil {
		glog.Warningf("httpd: /ANA: %v", err)
	}
}

const page = `<!DOCTYPE html>
<html>
<head><title>XeLL</title></head>
<body>
<h1>XeLL RELOADED %s</h1>
<p>Looking for files on local media and TFTP.</p>
<ul>
<li><a href="/FUSE">Fuses</a></li>
<li><a href="/ANA">ANA calibration</a></li>
</ul>
</body>
</html>
`
