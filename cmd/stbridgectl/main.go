// The stbridgectl command provides a command-line interface for
// inspecting and controlling set-top boxes through a stbridged daemon.
package main

import "github.com/settopbox/stbridge/internal/stbridgectl/cmd"

func main() {
	cmd.Execute()
}
