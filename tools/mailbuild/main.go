package main

import "github.com/zostay/go-mimebuild/tools/mailbuild/cmd"

func main() {
	cmd.Execute()
}
