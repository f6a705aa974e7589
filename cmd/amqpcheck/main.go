// amqpcheck decodes AMQP 1.0 typed-value data, re-encodes it, and decodes
// the result again, failing if the two trees disagree.
package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"

	"github.com/gongfarmer/amqpval/valuetree"
)

var log = logging.MustGetLogger("amqpcheck")

var stderrFormat = logging.MustStringFormatter(
	`%{color}amqpcheck: %{level:.4s}%{color:reset} %{message}`,
)

func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, stderrFormat)
	level := logging.WARNING
	if verbose {
		level = logging.DEBUG
	}
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

func main() {
	app := &cli.App{
		Name:      "amqpcheck",
		Usage:     "verify that AMQP typed-value data survives a decode/encode/decode round trip",
		ArgsUsage: "[<file>]",
		Description: "Reads raw AMQP wire bytes from <file>, or STDIN if\n" +
			"   omitted. Exits 0 if decoding, re-encoding, and decoding\n" +
			"   again produces an identical value tree; exits 1 and prints\n" +
			"   a diff of the debug text otherwise.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runCheck,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "amqpcheck:", err)
		os.Exit(1)
	}
}

func runCheck(c *cli.Context) error {
	setupLogging(c.Bool("verbose"))

	buf, err := readInput(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return cli.Exit("no input: provide a filename or pipe data to stdin", 2)
	}

	// A Tree.Decode call rebuilds exactly one top-level value; a file or
	// stdin stream may concatenate several, so check every one of them,
	// the way amqpcat loops to print every one of them.
	remaining := buf
	count := 0
	for len(remaining) > 0 {
		ok, consumed, report, err := RoundTrip(remaining)
		if err != nil {
			return fmt.Errorf("round trip atom %d: %w", count, err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "atom %d:\n%s\n", count, report)
			return cli.Exit("round-trip mismatch", 1)
		}
		log.Debugf("round trip OK for atom %d, %d byte(s)", count, consumed)
		remaining = remaining[consumed:]
		count++
	}
	fmt.Printf("OK (%d atom(s))\n", count)
	return nil
}

// RoundTrip decodes one top-level value out of buf, re-encodes the
// resulting tree, decodes that output again, and reports whether the two
// decoded trees print identically, along with how many of buf's leading
// bytes made up that one value. It is a separate function from runCheck
// so it can be exercised directly by tests.
func RoundTrip(buf []byte) (ok bool, consumed int, report string, err error) {
	first := valuetree.NewTree(256, 1024)
	firstConsumed, err := first.Decode(buf)
	if err != nil {
		return false, 0, "", fmt.Errorf("first decode: %w", err)
	}

	reencoded, _, err := first.Encode(nil)
	if err != nil {
		return false, 0, "", fmt.Errorf("re-encode: %w", err)
	}

	second := valuetree.NewTree(256, 1024)
	secondConsumed, err := second.Decode(reencoded)
	if err != nil {
		return false, 0, "", fmt.Errorf("second decode: %w", err)
	}

	firstText := first.Format()
	secondText := second.Format()
	if firstText != secondText || firstConsumed != secondConsumed {
		report = fmt.Sprintf(
			"mismatch after round trip:\n--- decoded from input (%d bytes)\n%s\n--- decoded from re-encode (%d bytes)\n%s",
			firstConsumed, firstText, secondConsumed, secondText,
		)
		return false, firstConsumed, report, nil
	}
	return true, firstConsumed, "", nil
}

func readInput(files []string) ([]byte, error) {
	if len(files) == 0 {
		if stdinIsEmpty() {
			return nil, nil
		}
		return ioutil.ReadAll(os.Stdin)
	}
	if len(files) > 1 {
		return nil, fmt.Errorf("amqpcheck takes at most one input file, got %d", len(files))
	}
	b, err := ioutil.ReadFile(files[0])
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading %s: %w", files[0], err)
	}
	return b, nil
}

func stdinIsEmpty() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}
