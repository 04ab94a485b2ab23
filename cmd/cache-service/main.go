package main

import "cache-service/cmd"

func main() {
	cmd.Execute()
}
