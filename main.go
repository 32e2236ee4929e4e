// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/annoload/annoload/cmd/annoload"

func main() {
	cmd.Execute()
}
