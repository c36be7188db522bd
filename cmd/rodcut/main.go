// RodCut cuts bar bending schedules from stock rods with as few rods as
// possible and writes the cutting plan.
//
// Build:
//
//	go build -o rodcut ./cmd/rodcut
package main

import "github.com/piwi3910/RodCut/cmd/rodcut/commands"

func main() {
	commands.Execute()
}
