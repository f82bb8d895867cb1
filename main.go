package main

import "github.com/keelsh/keelsh/cmd"

func main() {
	cmd.Execute()
}
