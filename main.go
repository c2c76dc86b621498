package main

import "github.com/dcode-github/rishstay/cmd"

func main() {
	cmd.Execute()
}
