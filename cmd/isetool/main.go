package main

import "github.com/OpenTraceLab/OpenTraceISE/cmd/isetool/cmd"

func main() {
	cmd.Execute()
}
