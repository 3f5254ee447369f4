package main

import "github.com/AnshRaj112/serenify-companion/internal/cli"

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/companionctl
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
