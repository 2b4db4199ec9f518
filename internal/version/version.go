// ABOUTME: Version information for soundstream binaries
// ABOUTME: Product name and version shown in logs and the probe command
package version

const (
	Version      = "0.3.0"
	Product      = "soundstream"
	Manufacturer = "Resonate Protocol"
)
