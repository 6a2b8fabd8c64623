package main

import "github.com/KaramelBytes/insightbox-cli/cmd"

func main() {
	cmd.Execute()
}
