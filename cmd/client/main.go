package main

import "grapetracker/cmd/client/cmd"

func main() {
	cmd.Execute()
}
