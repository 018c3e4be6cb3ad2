package main

import "github.com/fitpilot/fitpilot-cli/cmd"

func main() {
	cmd.Execute()
}
