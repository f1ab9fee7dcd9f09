package main

import "github.com/i474232898/weather-records/internal/cli"

func main() {
	cli.Execute()
}
