// amqpcat reads AMQP 1.0 typed-value data and writes it as debug text.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"

	"github.com/gongfarmer/amqpval/valuetree"
)

var log = logging.MustGetLogger("amqpcat")

var stderrFormat = logging.MustStringFormatter(
	`%{color}amqpcat: %{level:.4s}%{color:reset} %{message}`,
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
		Name:  "amqpcat",
		Usage: "read AMQP 1.0 typed-value data, write it as debug text",
		Description: "Reads raw AMQP wire bytes from the named files, or from\n" +
			"   STDIN if none are given. Input may also be hex text (as\n" +
			"   produced by -x), detected by a leading \"0x\".",
		ArgsUsage: "[<file> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write output to file instead of stdout"},
			&cli.BoolFlag{Name: "hex", Aliases: []string{"x"}, Usage: "print each top-level value's encoded bytes as hex instead of debug text"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runCat,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "amqpcat:", err)
		os.Exit(1)
	}
}

func runCat(c *cli.Context) error {
	setupLogging(c.Bool("verbose"))

	buf, err := readInput(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return cli.Exit("no input: provide a filename or pipe data to stdin", 2)
	}

	out := os.Stdout
	if name := c.String("output"); name != "" {
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return CatAll(out, buf, c.Bool("hex"))
}

// CatAll decodes every top-level value concatenated in buf, writing each
// one's debug text (or, if hex is set, its encoded bytes as a hex line) to
// w. A Tree.Decode call rebuilds exactly one top-level value, so CatAll
// loops until the input is exhausted. Separated from runCat so it can be
// driven directly by tests.
func CatAll(w io.Writer, buf []byte, asHex bool) error {
	remaining := buf
	count := 0
	for len(remaining) > 0 {
		tr := valuetree.NewTree(256, 1024)
		consumed, err := tr.Decode(remaining)
		if err != nil {
			return fmt.Errorf("decode atom %d: %w", count, err)
		}
		log.Debugf("decoded atom %d, %d of %d remaining byte(s)", count, consumed, len(remaining))

		if asHex {
			if err := writeHex(w, remaining[:consumed]); err != nil {
				return err
			}
		} else if err := tr.Dump(w); err != nil {
			return err
		}

		remaining = remaining[consumed:]
		count++
	}
	return nil
}

// writeHex prints one atom's encoded bytes as a hex line.
func writeHex(w io.Writer, consumed []byte) error {
	_, err := fmt.Fprintf(w, "0x%s\n", strings.ToUpper(hex.EncodeToString(consumed)))
	return err
}

// readInput concatenates the named files, or reads STDIN if none are given.
// Hex-encoded input (a leading "0x"; one 0x-prefixed line per value, as -x
// writes it) is decoded back to raw bytes first.
func readInput(files []string) ([]byte, error) {
	var raw []byte
	if len(files) == 0 {
		if stdinIsEmpty() {
			return nil, nil
		}
		b, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		raw = b
	} else {
		for _, name := range files {
			b, err := ioutil.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			raw = append(raw, b...)
		}
	}
	return decodeHexIfPresent(raw)
}

func decodeHexIfPresent(raw []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "0x") && !strings.HasPrefix(trimmed, "0X") {
		return raw, nil
	}
	var out []byte
	for _, field := range strings.Fields(trimmed) {
		if !strings.HasPrefix(field, "0x") && !strings.HasPrefix(field, "0X") {
			return nil, fmt.Errorf("invalid hex input: %q lacks the 0x prefix", field)
		}
		b, err := hex.DecodeString(field[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %w", err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func stdinIsEmpty() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}
