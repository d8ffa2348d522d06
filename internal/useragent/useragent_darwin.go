package useragent

import (
	"bytes"

	"golang.org/x/sys/cpu"
	"golang.org/x/sys/unix"
)

// probeOSVersion reads the kernel release via uname(2), mirroring
// cloudflare-roughtime's mjd_darwin.go's use of golang.org/x/sys/unix for a
// Darwin-specific syscall (there Gettimeofday, here Uname).
func probeOSVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return cstring(uts.Release[:])
}

func probeCPUModel() string {
	if cpu.ARM64.HasASIMD {
		return "arm64 (asimd)"
	}
	if cpu.X86.HasAVX2 {
		return "x86_64 (avx2)"
	}
	return ""
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
