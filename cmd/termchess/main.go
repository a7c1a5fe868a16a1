package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"termchess/pkg"
	"termchess/pkg/gui"
)

const pollInterval = 50 * time.Millisecond

func main() {
	fen := flag.String("fen", "", "initial position in FEN")
	logPath := flag.String("log", "", "path to a debug log file")
	flag.Parse()

	if *logPath != "" {
		if err := pkg.InitLog(*logPath, "CLIENT: "); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "termchess requires an interactive terminal")
		os.Exit(1)
	}

	screen, err := gui.NewScreen()
	if err != nil {
		color.Red("failed to initialize terminal: %s", err)
		os.Exit(1)
	}

	console := pkg.NewGameConsole(screen, pkg.Coord{Y: pkg.BoardWidth*2 + 2})

	client, err := pkg.NewClient(screen, console, *fen)
	if err != nil {
		screen.Fini()
		color.Red("%s", err)
		os.Exit(1)
	}

	for !client.ShouldQuit() {
		time.Sleep(pollInterval)
	}

	client.Close()
	screen.Fini()
}
