// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/rusk-run/rusk/cmd/rusk"

func main() {
	cmd.Execute()
}
