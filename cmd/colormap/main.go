// colormap - find the dominant colours of an image
//
// colormap removes a solid light or dark background from an image and
// reports its K most dominant colours, most dominant first.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/colormap/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
