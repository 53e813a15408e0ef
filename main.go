package main

import "items-api/cmd"

func main() {
	cmd.Execute()
}
