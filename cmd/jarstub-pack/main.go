// SPDX-License-Identifier: MPL-2.0

// Command jarstub-pack prepares the payload directory embedded into jarstub:
// it zips a runtime tree, stages the application jar, writes the build
// manifest and checks a runtime archive the way the launcher will.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(int(execute(context.Background())))
}
