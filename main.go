package main

import "github.com/fakeyudi/huntsplit/cmd"

func main() {
	cmd.Execute()
}
