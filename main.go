package main

import "github.com/Rorical/CircuiTech/cmd"

func main() {
	cmd.Execute()
}
