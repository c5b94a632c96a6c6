/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package main

import "github.com/substantialcattle5/naib/cmd"

func main() {
	cmd.Execute()
}
