// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"os"
	"strings"
)

// IsRunningInDocker checks for the marker file docker creates in every
// container, falling back to the init process cgroup
func IsRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	b, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}

	return strings.Contains(string(b), "docker")
}
