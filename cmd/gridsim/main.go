// Command gridsim is a headless simulator that applies scripted touches
// directly to a single grid and prints each touched cell's resulting
// color as the grid model reports it — useful for exercising gridmodel
// without real hardware attached.
package main

import (
	"flag"
	"fmt"
	"os"

	"nonagonengine/internal/bus"
	"nonagonengine/internal/gridmodel"
)

func main() {
	width := flag.Int("width", 4, "grid width to simulate")
	height := flag.Int("height", 4, "grid height to simulate")
	flag.Parse()

	holder := bus.NewHolder()
	grid := gridmodel.NewGrid(holder, 0)

	for x := 0; x < *width; x++ {
		for y := 0; y < *height; y++ {
			grid.Apply(gridmodel.NoteMessage(x, y, 100))
		}
	}

	for x := 0; x < *width; x++ {
		for y := 0; y < *height; y++ {
			c := grid.GetColor(x, y)
			fmt.Fprintf(os.Stdout, "(%d,%d) -> #%02x%02x%02x\n", x, y, c.R, c.G, c.B)
		}
	}
}
