package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"routernav/cmd"
	"routernav/internal/events"

	"golang.org/x/term"
)

func main() {
	logFile := cmd.LogFile(os.Args[1:])
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	// Capture original terminal state (if stdin is a TTY) so we can restore on forced exit.
	var origState *term.State
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if st, err := term.GetState(int(os.Stdin.Fd())); err == nil {
			origState = st
		}
	}

	forceExit := func(code int) {
		if origState != nil {
			_ = term.Restore(int(os.Stdin.Fd()), origState)
		}
		os.Exit(code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	done := make(chan struct{})
	shutdown := make(chan struct{})
	var shutdownOnce sync.Once
	exitCode := 0

	events.AppBus.Subscribe(events.EventShutdownRequested, func(reason string) {
		log.Printf("shutdown requested: %s\n", reason)
		cancel()
		shutdownOnce.Do(func() { close(shutdown) })
	})

	events.AppBus.Subscribe(events.EventSessionCompleted, func(completed int) {
		log.Printf("session completed with %d navigations\n", completed)
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := cmd.ExecuteContext(ctx); err != nil {
			exitCode = 1
		}
		close(done)
	}()

waitLoop:
	for {
		select {
		case <-shutdown:
			select {
			case <-done:
				log.Println("command exited cleanly after shutdown request")
				break waitLoop
			case <-time.After(5 * time.Second):
				log.Println("timeout waiting for command after shutdown request, forcing exit")
				forceExit(1)
			}
		case <-done:
			log.Println("command finished; exiting.")
			break waitLoop
		}
	}

	wg.Wait()

	if origState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), origState)
	}
	if exitCode != 0 {
		f.Close()
		os.Exit(exitCode)
	}
}
