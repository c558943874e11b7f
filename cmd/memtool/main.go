package main

import (
	"log"
	"os"

	"github.com/fcurrie/memtool/internal/config"
	"github.com/fcurrie/memtool/internal/memtool"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix(memtool.Program + ": ")

	// Load configuration
	cfg, err := config.FromEnv()
	if err != nil {
		log.Printf("Failed to load config from $%s: %v", config.EnvPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}

	if err := memtool.New(cfg).Run(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
