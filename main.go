package main

import "github.com/notargets/simplexdg/cmd"

func main() {
	cmd.Execute()
}
