package main

import "github.com/ShotaTanemura/TermiGroove/cmd"

func main() {
	cmd.Execute()
}
