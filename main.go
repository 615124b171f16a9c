package main

import "github.com/lnwatch/phoenixd-dash/cmd"

func main() {
	cmd.Execute()
}
