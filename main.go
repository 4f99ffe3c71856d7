package main

import (
	"log"

	"github.com/anoixa/photo-album/config"

	"github.com/anoixa/photo-album/cmd"
)

func main() {
	log.Printf("photo album %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
