// Package build carries the version stamped in with -ldflags "-X".
package build

import (
	"fmt"
	"time"
)

var (
	commit  = ""
	date    = ""
	version = "dev"
)

var Current Build

func init() {
	d, _ := time.Parse(time.RFC3339, date)
	Current = Build{
		Commit:  commit,
		Version: version,
		Date:    d,
	}
}

type Build struct {
	Commit  string    `json:"commit,omitempty"`
	Version string    `json:"version"`
	Date    time.Time `json:"date,omitempty"`
}

func (b Build) String() string {
	if b.Commit == "" {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, b.Commit)
}
