package main

import "github.com/ademuri/spotify-tools/cmd"

func main() {
	cmd.Execute()
}
