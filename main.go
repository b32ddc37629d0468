// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"tracklog/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
