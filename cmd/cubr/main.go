// cubr - animated Rubik's cube with solver playback, color capture and
// session recording.
package main

import (
	"github.com/SeamusWaldron/cubr/internal/cli"
)

func main() {
	cli.Execute()
}
