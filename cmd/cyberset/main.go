package main

import "github.com/MeKo-Tech/cyberset/cmd/cyberset/cmd"

func main() {
	cmd.Execute()
}
