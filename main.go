package main

import "github.com/Solesoul2/flashcard2/cmd"

func main() {
	cmd.Execute()
}
