//go:build windows
// +build windows

package useragent

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// probeOSVersion reads CurrentBuildNumber from the registry, the same
// windows.registry access pattern cloudflare-roughtime's mjd_windows.go
// uses golang.org/x/sys/windows for (there GetSystemTimeAsFileTime, here
// registry.OpenKey).
func probeOSVersion() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	build, _, err := k.GetStringValue("CurrentBuildNumber")
	if err != nil {
		return ""
	}
	major, _, _ := k.GetIntegerValue("CurrentMajorVersionNumber")
	return fmt.Sprintf("%d.%s", major, build)
}

// probeCPUModel reads the friendly processor name registered by the CPU
// driver, the closest Windows equivalent to /proc/cpuinfo's model name.
func probeCPUModel() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `HARDWARE\DESCRIPTION\System\CentralProcessor\0`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	name, _, err := k.GetStringValue("ProcessorNameString")
	if err != nil {
		return ""
	}
	return name
}
