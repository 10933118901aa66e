package main

import "github.com/sadopc/dutyreg/cmd"

func main() {
	cmd.Execute()
}
