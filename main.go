package main

import "github.com/peyvandtech/darmana/cmd"

func main() {
	cmd.Execute()
}
