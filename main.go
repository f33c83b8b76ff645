package main

import "github.com/hinkolas/hmb/cmd"

func main() {
	cmd.Execute()
}
