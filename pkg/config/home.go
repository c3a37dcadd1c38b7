package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "CASESHEET_HOME"

var (
	homeMu       sync.Mutex
	homeOverride string
	homeDir      string
)

// homeSources are tried in order; the first non-empty answer wins.
var homeSources = []func() string{
	func() string { return homeOverride },
	func() string { return os.Getenv(envHome) },
	binaryHome,
	userHome,
	func() string {
		cwd, _ := os.Getwd()
		return cwd
	},
}

// GetHome returns the casesheet home directory, where config.yaml, the
// key-value store and the log live. The answer is cached.
//
// Lookup order:
//  1. SetHome (the --home flag)
//  2. $CASESHEET_HOME
//  3. <home> when the binary sits in <home>/bin
//  4. ~/.casesheet
//  5. the working directory
func GetHome() string {
	homeMu.Lock()
	defer homeMu.Unlock()
	if homeDir == "" {
		homeDir = "."
		for _, source := range homeSources {
			if dir := source(); dir != "" {
				homeDir = dir
				break
			}
		}
	}
	return homeDir
}

// SetHome puts dir ahead of every other home source.
func SetHome(dir string) {
	homeMu.Lock()
	defer homeMu.Unlock()
	homeOverride = dir
	homeDir = ""
}

// ResetHome forgets the override and the cached directory (for testing).
func ResetHome() {
	SetHome("")
}

func binaryHome() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if dir := filepath.Dir(exe); filepath.Base(dir) == "bin" {
		return filepath.Dir(dir)
	}
	return ""
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".casesheet")
}
