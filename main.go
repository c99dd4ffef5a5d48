package main

import "episync/internal/cmd"

func main() {
	cmd.Execute()
}
