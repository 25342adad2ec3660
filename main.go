package main

import "github.com/iburimskiy/particle-floor/cmd"

func main() {
	cmd.Execute()
}
