// Package main provides the sinkswitch CLI for inspecting and steering
// audio routing by hand.
package main

func main() {
	Execute()
}
