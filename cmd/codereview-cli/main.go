package main

import "github.com/YagorVitor/CodeReview/internal/cmd"

func main() {
	cmd.Execute()
}
