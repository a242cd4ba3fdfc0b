// Package main provides the entry point for the chaski CLI.
//
// chaski initializes complex-valued neural network weights and crawls
// documentation websites for their article text.
//
// Usage:
//
//	chaski init --shape 8,4,3,3 --criterion glorot --seed 42 --out weights.gob
//	chaski crawl https://diataxis.fr/ --out ./diataxis
//
// See --help for all available options.
package main

func main() {
	Execute()
}
