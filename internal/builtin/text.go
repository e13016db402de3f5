// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

func head(_ context.Context, hc *HandlerContext, args []string) error {
	fs := newFlagSet("head")
	n := fs.Int("n", 10, "number of lines")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	files := fs.Args()
	return eachInput(hc, files, func(r io.Reader, name string) error {
		if len(files) > 1 {
			fmt.Fprintf(hc.Stdout, "==> %s <==\n", name)
		}
		scanner := bufio.NewScanner(r)
		for i := 0; i < *n && scanner.Scan(); i++ {
			fmt.Fprintln(hc.Stdout, scanner.Text())
		}
		return scanner.Err()
	})
}

func tail(_ context.Context, hc *HandlerContext, args []string) error {
	fs := newFlagSet("tail")
	n := fs.Int("n", 10, "number of lines")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *n <= 0 {
		return nil
	}
	files := fs.Args()
	return eachInput(hc, files, func(r io.Reader, name string) error {
		if len(files) > 1 {
			fmt.Fprintf(hc.Stdout, "==> %s <==\n", name)
		}
		ring := make([]string, 0, *n)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if len(ring) == *n {
				ring = ring[1:]
			}
			ring = append(ring, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		for _, line := range ring {
			fmt.Fprintln(hc.Stdout, line)
		}
		return nil
	})
}

type counts struct {
	lines, words, bytes int
}

func wc(_ context.Context, hc *HandlerContext, args []string) error {
	fs := newFlagSet("wc")
	lines := fs.Bool("l", false, "count lines")
	words := fs.Bool("w", false, "count words")
	chars := fs.Bool("c", false, "count bytes")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if !*lines && !*words && !*chars {
		*lines, *words, *chars = true, true, true
	}

	emit := func(c counts, name string) {
		var fields []string
		if *lines {
			fields = append(fields, fmt.Sprintf("%d", c.lines))
		}
		if *words {
			fields = append(fields, fmt.Sprintf("%d", c.words))
		}
		if *chars {
			fields = append(fields, fmt.Sprintf("%d", c.bytes))
		}
		if name != "-" {
			fields = append(fields, name)
		}
		fmt.Fprintln(hc.Stdout, strings.Join(fields, " "))
	}

	files := fs.Args()
	var total counts
	err := eachInput(hc, files, func(r io.Reader, name string) error {
		c, err := count(r)
		if err != nil {
			return err
		}
		total.lines += c.lines
		total.words += c.words
		total.bytes += c.bytes
		emit(c, name)
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) > 1 {
		emit(total, "total")
	}
	return nil
}

func count(r io.Reader) (counts, error) {
	var c counts
	inWord := false
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		c.bytes++
		if b == '\n' {
			c.lines++
		}
		if unicode.IsSpace(rune(b)) {
			inWord = false
		} else if !inWord {
			inWord = true
			c.words++
		}
	}
}
