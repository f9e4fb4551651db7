package main

import "shaper-sync/cmd"

func main() {
	cmd.Execute()
}
