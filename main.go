package main

import "github.com/YASH4-HD/bio-tikz-studio/cmd"

func main() {
	cmd.Execute()
}
