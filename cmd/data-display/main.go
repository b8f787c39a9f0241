package main

import "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/cmd/data-display/cmd"

func main() {
	cmd.Execute()
}
