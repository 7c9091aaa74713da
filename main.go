package main

import "github.com/Daskott/contacts/cmd"

func main() {
	cmd.Execute()
}
