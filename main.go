package main

import "github.com/dealhound/dealhound/cmd"

func main() {
	cmd.Execute()
}
