package main

import "github.com/douhashi/conflictlabel/cmd"

func main() {
	cmd.Execute()
}
