package main

import "github.com/abdul-hamid-achik/studyhub/apps/cli/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
