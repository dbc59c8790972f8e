package envsetup

import (
	"os"
	"strings"
)

// WSLReport is what the doctor command prints about a WSL2 environment.
type WSLReport struct {
	IsWSL         bool // Kernel identifies as Microsoft/WSL
	HasWSLConf    bool // /etc/wsl.conf present
	HasDriveMount bool // Windows C: drive mounted under /mnt/c
}

// InspectWSL probes the running system for WSL2 specifics. On a non-WSL
// machine the zero report comes back and the doctor prints nothing about WSL.
func InspectWSL() WSLReport {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return WSLReport{}
	}

	report := WSLReport{IsWSL: detectWSLFrom(string(data))}
	if !report.IsWSL {
		return report
	}

	if _, err := os.Stat("/etc/wsl.conf"); err == nil {
		report.HasWSLConf = true
	}
	if _, err := os.Stat("/mnt/c"); err == nil {
		report.HasDriveMount = true
	}
	return report
}

// detectWSLFrom reports whether a /proc/version string names the Microsoft
// kernel. WSL1 says "Microsoft", WSL2 says "microsoft-standard", so the match
// is case-insensitive.
func detectWSLFrom(procVersion string) bool {
	return strings.Contains(strings.ToLower(procVersion), "microsoft")
}
