// Package diag renders immutable hardware identity for the user to write
// down: the one-time-programmable fuse lines, the analog calibration table
// and the processor version. Nothing in here writes to hardware.
package diag

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// OTP reads the one-time-programmable fuse lines.
type OTP interface {
	ReadLine(n int) uint64
}

// Calibration reads the analog (ANA) calibration registers through the SMC.
type Calibration interface {
	ReadANA(reg uint8) (uint32, error)
}

// Keys exposes the per-console keys derived from the fuses.
type Keys interface {
	CPUKey() [16]byte
	DVDKey() [16]byte
}

// CalibrationRegs is the number of ANA registers dumped.
const CalibrationRegs = 0x100

// Reporter owns the fuse dump buffer for the duration of a report.
type Reporter struct {
	otp   OTP
	ana   Calibration
	fuses FuseDump
}

func NewReporter(otp OTP, ana Calibration) *Reporter {
	return &Reporter{otp: otp, ana: ana}
}

// Fuses reads all fuse lines and returns their rendering. The result is
// valid until the next call.
func (r *Reporter) Fuses() *FuseDump {
	var lines [FuseLines]uint64
	for i := range lines {
		lines[i] = r.otp.ReadLine(i)
	}
	r.fuses.Render(&lines)
	return &r.fuses
}

// ReportFuses writes the fuse dump to w as is. The text contains device data
// and is never used as a format string.
func (r *Reporter) ReportFuses(w io.Writer) error {
	_, err := w.Write(r.Fuses().Bytes())
	return err
}

// ReportCalibration writes all ANA registers to w, eight per row, each row
// followed by a comment with its starting register.
func (r *Reporter) ReportCalibration(w io.Writer) error {
	var row []byte
	for i := 0; i < CalibrationRegs; i++ {
		v, err := r.ana.ReadANA(uint8(i))
		if err != nil {
			glog.V(2).Infof("ana %02x: %v", i, err)
		}
		row = fmt.Appendf(row, "0x%08x, ", v)
		if i&0x7 == 0x7 {
			row = fmt.Appendf(row, " // %02x\n", i&^0x7)
			if _, err := w.Write(row); err != nil {
				return err
			}
			row = row[:0]
		}
	}
	return nil
}

// ReportCPU prints the processor version register.
func ReportCPU(w io.Writer, pvr uint32) error {
	_, err := fmt.Fprintf(w, " * CPU PVR: %08x\n", pvr)
	return err
}

// ReportKeys prints the CPU and DVD keys in hex.
func ReportKeys(w io.Writer, k Keys) error {
	cpu, dvd := k.CPUKey(), k.DVDKey()
	_, err := fmt.Fprintf(w, "CPU Key: %s\nDVD Key: %s\n",
		hex.EncodeToString(cpu[:]), hex.EncodeToString(dvd[:]))
	return err
}
