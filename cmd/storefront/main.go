// Command storefront manages storefront entity storage and serves the
// JSON API.
package main

import "github.com/mesh-intelligence/storefront/internal/cli"

func main() {
	cli.Execute()
}
