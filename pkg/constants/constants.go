// Package constants provides shared constants used throughout netorg.
// This includes timeouts, file permissions, remote API locations and the
// well-known names used when organizing host groups.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single request to a remote API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for one CLI command run
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds cleanup after a command returns
	ShutdownTimeout = 5 * time.Second

	// LockTimeout bounds waiting for the classification file lock
	LockTimeout = 10 * time.Second

	// LockRetryDelay is the delay between lock attempts
	LockRetryDelay = 100 * time.Millisecond
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for files holding credentials (rw-------)
	SecureFilePermissions = 0600
)

// Configuration locations
const (
	// ConfigFileName is the name of the configuration file in the home directory
	ConfigFileName = ".netorg.cfg"

	// DefaultDevicesFile is the default classification file location
	DefaultDevicesFile = "~/devices.yml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "NETORG"
)

// Remote API locations
const (
	// MerakiBaseURL is the Meraki Dashboard API root
	MerakiBaseURL = "https://api.meraki.com/api/v1"

	// MerakiAPIKeyHeader carries the Dashboard API key
	MerakiAPIKeyHeader = "X-Cisco-Meraki-API-Key"

	// XSRFHeader carries the Secure Network Analytics session token
	XSRFHeader = "X-XSRF-TOKEN"

	// XSRFCookie is the cookie the token is issued in
	XSRFCookie = "XSRF-TOKEN"
)

// Host group naming
const (
	// InsideHostsGroup is the remote root container for inside hosts
	InsideHostsGroup = "Inside Hosts"

	// NetOrganizerGroup is the container holding every managed group
	NetOrganizerGroup = "Net Organizer Groups"

	// UnclassifiedGroup is the group name rendered for devices without one
	UnclassifiedGroup = "unclassified"
)
