package main

import "github.com/mathwizard1232/openlibrary-client-2/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
