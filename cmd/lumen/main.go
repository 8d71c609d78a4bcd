package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	u "github.com/araddon/gou"
	"github.com/mb0/glob"
	"github.com/peterh/liner"

	"github.com/lumenlang/lumen/lumen"
)

const appName = "lumen"

// sysexits-style codes: static errors are "bad input", runtime errors are
// "software error".
const (
	exitUsage   = 2
	exitStatic  = 65
	exitRuntime = 70
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitUsage)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "version":
		fmt.Printf("%s %s (built %s)\n", appName, lumen.Version, lumen.BuildDate)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Printf(`Lumen %s

Usage:
  %s run <file.lum>            Run a script.
  %s repl [--config <file>]    Start the interactive prompt.
  %s ast <file.lum>            Print the parsed syntax tree.
  %s check <pattern> [...]     Statically check matching .lum files.
  %s version                   Print the version.

Flags common to subcommands:
  --debug    verbose internal logging
`, lumen.Version, appName, appName, appName, appName, appName)
}

func setupLogging(debug bool) {
	if debug {
		u.SetupLogging("debug")
		u.SetColorOutput()
	} else {
		u.SetupLogging("warn")
	}
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	fs.Parse(args)
	setupLogging(*debug)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.lum>\n", appName)
		return exitUsage
	}
	file := fs.Arg(0)
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	u.Debugf("running %s (%d bytes)", file, len(src))
	r := lumen.NewRunner(os.Stdout, os.Stderr)
	r.Run(string(src))
	switch {
	case r.Reporter().HadError():
		return exitStatic
	case r.Reporter().HadRuntimeError():
		return exitRuntime
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	cfgPath := fs.String("config", "", "yaml config file")
	fs.Parse(args)
	setupLogging(*debug)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: bad config: %v\n", appName, err)
		return 1
	}

	banner := fmt.Sprintf("Lumen %s. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.", lumen.Version)
	if cfg.Color {
		banner = blue(banner)
	}
	fmt.Println(banner)

	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	histPath := historyPath(cfg.History)
	if f, err := os.Open(histPath); err == nil {
		rl.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			rl.WriteHistory(f)
			f.Close()
		}
	}()

	// one runner for the whole session: globals persist, error flags reset
	// per line, a runtime error never kills the prompt
	r := lumen.NewRunner(os.Stdout, os.Stderr)

	for {
		line, err := rl.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return 0
		}
		rl.AppendHistory(line)
		r.Run(line)
	}
}

func historyPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	fs.Parse(args)
	setupLogging(*debug)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.lum>\n", appName)
		return exitUsage
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, fs.Arg(0), err)
		return 1
	}

	r := lumen.NewRunner(os.Stdout, os.Stderr)
	stmts, ok := r.Parse(string(src))
	if !ok {
		return exitStatic
	}
	fmt.Print(lumen.PrintProgram(stmts))
	return 0
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

// cmdCheck statically checks every .lum file under the current directory
// matching any of the given patterns ("*" wildcards, or a plain path
// prefix). Reports diagnostics without executing anything.
func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	fs.Parse(args)
	setupLogging(*debug)

	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	files, err := matchSources(patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no .lum files match %v\n", appName, patterns)
		return 1
	}

	failed := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			failed++
			continue
		}
		u.Debugf("checking %s", file)
		r := lumen.NewRunner(io.Discard, os.Stderr)
		if r.Check(string(src)) {
			fmt.Printf("%s %s\n", green("ok"), file)
		} else {
			fmt.Printf("%s %s\n", red("FAIL"), file)
			failed++
		}
	}
	if failed > 0 {
		return exitStatic
	}
	return 0
}

// matchSources walks the working directory collecting .lum files that match
// any pattern: glob match when the pattern has a wildcard, path prefix
// otherwise ("." matches everything).
func matchSources(patterns []string) ([]string, error) {
	var files []string
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if filepath.Ext(path) != ".lum" {
			return nil
		}
		for _, pat := range patterns {
			if strings.Contains(pat, "*") {
				if ok, _ := glob.Match(pat, path); ok {
					files = append(files, path)
					return nil
				}
			} else if pat == "." || strings.HasPrefix(path, strings.TrimPrefix(pat, "./")) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	return files, err
}
