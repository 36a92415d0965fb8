package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
)

// exit ends the process after a panic has been logged.
var exit = os.Exit

// Run starts f on its own goroutine. A panic in f is logged under name with
// its stack and ends the process.
func Run(name string, f func()) {
	go func() {
		defer Recover(name)
		f()
	}()
}

func Recover(name string) {
	if r := recover(); r != nil {
		HandlePanic(name, r)
	}
}

func HandlePanic(name string, panic any) {
	defer exit(1)

	buf := make([]byte, 100000)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	slog.Error("panic", "goroutine", name, "value", fmt.Sprint(panic), "stack", string(buf))
}
