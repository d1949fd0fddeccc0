package commands

import (
	"io"
	"os"
)

type Globals struct {
	Debug   bool
	Version string
}

// stdout receives command output
var stdout io.Writer = os.Stdout
