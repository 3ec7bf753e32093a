package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dastels/microscheme/internal/history"
	"github.com/dastels/microscheme/internal/interp"
	"github.com/dastels/microscheme/internal/iox"
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/logging"
)

const historyPath = "./.history"

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
	if kind, ok := interp.ErrorKind(err); ok && kind == langerr.OutOfMemory {
		os.Exit(2)
	}
	os.Exit(1)
}

func main() {
	level := flag.String("l", "ERROR", "log level: NOTSET DEBUG_DEEP DEBUG_MID DEBUG INFO WARNING ERROR CRITICAL")
	expr := flag.String("e", "", "evaluate EXPR non-interactively and exit")
	flag.Parse()

	logging.SetLevel(logging.LevelForName(*level, logging.Error))

	it, err := interp.New()
	if err != nil {
		atExit(err)
		return
	}

	if *expr != "" {
		runOnce(it, *expr)
		return
	}
	runREPL(it)
}

func runOnce(it *interp.Interpreter, expr string) {
	logging.Debugf("heap size: %d, free: %d", it.HeapSize(), it.FreeSize())
	out, err := it.EvalString(expr)
	if err != nil {
		logging.Errorf("%v", err)
		if kind, ok := interp.ErrorKind(err); ok && kind == langerr.OutOfMemory {
			os.Exit(2)
		}
		return
	}
	fmt.Println(out)
	logging.Debugf("heap size: %d, free: %d", it.HeapSize(), it.FreeSize())
}

func runREPL(it *interp.Interpreter) {
	hist, err := history.Load(historyPath)
	if err != nil {
		logging.Warnf("history: %v", err)
		hist = &history.History{}
	}

	out := iox.NewErrWriter(os.Stdout)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Welcome to microscheme.")
	fmt.Fprintf(out, "heap size: %d, free: %d\n\n", it.HeapSize(), it.FreeSize())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "(quit)" {
			break
		}
		hist.Add(line)

		result, err := it.EvalString(line)
		if err != nil {
			fmt.Fprintf(out, "ERROR: %v\n", err)
			if kind, ok := interp.ErrorKind(err); ok && kind == langerr.OutOfMemory {
				saveHistory(hist)
				os.Exit(2)
			}
			continue
		}
		fmt.Fprintf(out, "==> %s\n", result)
		fmt.Fprintf(out, "heap size: %d, free: %d\n\n", it.HeapSize(), it.FreeSize())
	}
	if out.Err != nil {
		logging.Warnf("output: %v", out.Err)
	}

	saveHistory(hist)
}

func saveHistory(hist *history.History) {
	if err := hist.Save(); err != nil {
		logging.Warnf("history: %v", err)
	}
}
