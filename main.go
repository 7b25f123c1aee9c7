package main

import "github.com/ValentinKolb/rStore/cmd"

func main() {
	cmd.Execute()
}
