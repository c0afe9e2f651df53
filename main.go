package main

import "github.com/Mohsinsiddi/pactwallet/cmd"

func main() {
	cmd.Execute()
}
