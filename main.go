package main

import "github.com/KaramelBytes/segmap-cli/cmd"

func main() {
	cmd.Execute()
}
