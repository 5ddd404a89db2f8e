package main

import "github.com/dm/esaudit-go/internal/cli"

// version is stamped via -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	cli.Execute(version)
}
