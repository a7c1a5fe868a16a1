package main

import (
	"flag"
	"log"
	"time"

	"github.com/fatih/color"

	"termchess/pkg"
)

func main() {
	addr := flag.String("addr", ":2222", "ssh listen address")
	clientPath := flag.String("client", "termchess", "path to the console client binary")
	idle := flag.Duration("idle", 5*time.Minute, "session idle timeout")
	flag.Parse()

	srv, err := pkg.NewServer(*addr, *clientPath, *idle)
	if err != nil {
		log.Fatalf("server setup: %v", err)
	}

	color.Green("termchess ssh server listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
