/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/restprobe/restprobe/cmd"

func main() {
	cmd.Execute()
}
