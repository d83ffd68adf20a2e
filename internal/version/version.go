// internal/version/version.go
package version

// Version is the simpleaf release version, stamped into provenance records.
const Version = "0.5.0"
