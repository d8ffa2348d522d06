package useragent

import (
	"bytes"

	"golang.org/x/sys/cpu"
	"golang.org/x/sys/unix"
)

// probeOSVersion reads the kernel release via uname(2), the same syscall
// cloudflare-roughtime's mjd_linux.go reaches for with golang.org/x/sys/unix
// (there via Adjtimex, here via Uname).
func probeOSVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return cstring(uts.Release[:])
}

// probeCPUModel reports what golang.org/x/sys/cpu detected about the host
// CPU. cpu.X86 is only populated on amd64/386 and cpu.ARM64 only on arm64;
// a host with none of the checked features gets an empty string, which
// Assemble reports as "unknown".
func probeCPUModel() string {
	if cpu.X86.HasAVX2 {
		return "x86_64 (avx2)"
	}
	if cpu.X86.HasSSE42 {
		return "x86_64 (sse4.2)"
	}
	if cpu.ARM64.HasASIMD {
		return "arm64 (asimd)"
	}
	return ""
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
