/*
Copyright © 2025 The errandsync authors
*/
package main

import "github.com/errandhq/errandsync/cmd"

func main() {
	cmd.Execute()
}
