package main

import "wayfarer-backend/cmd"

func main() {
	cmd.Run()
}
