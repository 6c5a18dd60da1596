package main

import "github.com/roninmarket/marketbot/cmd"

func main() {
	cmd.Execute()
}
