// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/historydemo/main.go
// Summary: Spawns a shell under a PTY, feeds its output into a
// historycore.Store, and replays the live region into a tcell screen on
// demand — a minimal end-to-end exercise of the store/cursor/render stack.
// Configuration loads from ~/.config/fizmohist/historydemo.json (see
// config.go); flags override config file values.
// Usage: go run ./cmd/historydemo [-shell /bin/bash] [-size units]

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/fizmohist/internal/historycore"
	"github.com/framegrace/fizmohist/internal/render"
)

func main() {
	shell := flag.String("shell", "", "shell to spawn under the PTY (overrides config)")
	nMax := flag.Int("size", 0, "maximum history store size, in units (overrides config)")
	nInc := flag.Int("inc", 0, "history store growth increment, in units (overrides config)")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("historydemo: load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shell":
			cfg.Shell = *shell
		case "size":
			cfg.Store.MaxSize = *nMax
		case "inc":
			cfg.Store.GrowthIncrement = *nInc
		}
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("historydemo: new screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("historydemo: screen init: %v", err)
	}
	defer screen.Fini()

	w, h := screen.Size()
	store := historycore.NewStoreFromConfig(0, cfg.Store)
	store.SetFatalHook(func(err *historycore.FatalError) {
		screen.Fini()
		log.Fatalf("historydemo: history store invariant violated: %v", err)
	})

	cmd := exec.Command(cfg.Shell)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
	if err != nil {
		log.Fatalf("historydemo: start pty: %v", err)
	}
	defer ptmx.Close()

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, oldState)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		for range sigCh {
			w, h = screen.Size()
			pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
		}
	}()

	target := render.NewTcellTarget(screen, 0, 0, w, h)

	done := make(chan struct{})
	go pumpOutput(ptmx, store, screen, target, done)

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				cmd.Process.Kill()
				<-done
				return
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// pumpOutput copies PTY output into the history store and redraws the
// visible region's tail after each chunk.
func pumpOutput(ptmx *os.File, store *historycore.Store, screen tcell.Screen, target *render.TcellTarget, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			if werr := store.StoreText(string(buf[:n])); werr != nil {
				if _, ok := werr.(*historycore.NoOpError); !ok {
					log.Printf("historydemo: store_text: %v", werr)
				}
			}
			redraw(store, screen, target)
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("historydemo: pty read: %v", err)
			}
			return
		}
	}
}

// redraw replays the tail of the live region: rewind one screen height's
// worth of paragraphs back from front, then play them forward again.
func redraw(store *historycore.Store, screen tcell.Screen, target *render.TcellTarget) {
	_, h := screen.Size()

	cursor := historycore.NewCursor(store, target, historycore.FlagNoValidation)
	rewound := 0
	for rewound < h {
		outcome, err := cursor.RewindParagraph()
		if err != nil || outcome.EndOfLiveRegion {
			break
		}
		rewound++
	}

	target.SetOrigin()
	cursor.RepeatParagraphs(rewound, true, true)
	cursor.Destroy()
	screen.Show()
}
