// Package useragent assembles the fingerprinting User-Agent header
// SPEC_FULL.md §4.I describes: OS name, OS version, architecture, CPU
// model, and compiler, each with an environment-variable override and a
// length cap, generalizing the per-platform split cloudflare-roughtime uses
// for its mjd package (mjd_linux.go/mjd_darwin.go/mjd_windows.go) from wall
// clocks to host fingerprinting.
package useragent

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/nist-labs/acvp-client/internal/acvplog"
)

// fieldMax caps every individual component of the assembled header so a
// hostile or malformed platform value can't blow up the request line.
const fieldMax = 64

// Assemble builds the "acvpclient/<version> (<osname> <osver>; <arch>;
// <proc>; <comp>)" User-Agent string. Each component prefers its
// platform-specific probe, then falls back to its ACV_USER_AGENT_*
// environment variable, and is truncated (with a warning) if it exceeds
// fieldMax bytes.
func Assemble(clientVersion string) string {
	osName := field("ACV_USER_AGENT_OSNAME", "osname", runtime.GOOS)
	osVer := field("ACV_USER_AGENT_OSVER", "osver", probeOSVersion())
	arch := field("ACV_USER_AGENT_ARCH", "arch", runtime.GOARCH)
	proc := field("ACV_USER_AGENT_PROC", "proc", probeCPUModel())
	comp := field("ACV_USER_AGENT_COMP", "comp", probeCompiler())

	return fmt.Sprintf("acvpclient/%s (%s %s; %s; %s; %s)",
		clientVersion, osName, osVer, arch, proc, comp)
}

// field resolves one User-Agent component: the probed value is used when
// the probe produced one, otherwise the env var, and either is capped to
// fieldMax. A component with neither is logged and reported as "unknown".
func field(envVar, label, probed string) string {
	value := strings.TrimSpace(probed)
	if value == "" {
		value = strings.TrimSpace(os.Getenv(envVar))
	}
	if value == "" {
		acvplog.Printf("useragent: no %s detected and %s is unset", label, envVar)
		return "unknown"
	}
	if len(value) > fieldMax {
		acvplog.Printf("useragent: %s value %q exceeds %d bytes, truncating", label, value, fieldMax)
		value = value[:fieldMax]
	}
	return value
}

func probeCompiler() string {
	return fmt.Sprintf("%s/%s", runtime.Compiler, runtime.Version())
}
