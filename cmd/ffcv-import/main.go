package main

import "github.com/clubdash/ffcv-import/internal/cli"

func main() {
	cli.Execute()
}
