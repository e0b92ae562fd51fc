package main

import "github.com/diogo/webchat/internal/commands"

func main() {
	commands.Execute()
}
