// File: cmd/version.go
package cmd

// Version is the application version.
// Example: go build -ldflags "-X github.com/xkilldash9x/toolshim/cmd.Version=1.0.0"
var Version = "0.1.0"
