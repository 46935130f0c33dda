package state

import (
	"time"

	"md2docx/pandoc"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:  time.Now(),
		Runner: &pandoc.ExecRunner{},
	}
}
