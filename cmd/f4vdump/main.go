// Command f4vdump reads an F4V/bootstrap file and prints its box structure.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phsym/console-slog"
	"github.com/tetsuo/f4v"
)

func main() {
	offset := flag.Int64("offset", 0, "byte offset to start parsing at")
	verbose := flag.Bool("v", false, "log skipped box types")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-offset n] [-v] <file>\n", os.Args[0])
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level}))

	p, err := f4v.ParseFile(flag.Arg(0), *offset)
	if err != nil {
		logger.Error("open failed", "err", err)
		os.Exit(1)
	}
	p.Logger = logger

	for p.Next() {
		printBox(p.Box(), 0)
	}
	if err := p.Err(); err != nil {
		logger.Error("decode failed", "err", err)
		os.Exit(1)
	}
}

func printBox(box f4v.Box, depth int) {
	indent := strings.Repeat("  ", depth)
	hdr := box.BoxHeader()
	fmt.Printf("%s[%s] size=%d%s\n", indent, hdr.BoxType, hdr.BoxSize, boxInfo(box))

	switch b := box.(type) {
	case *f4v.MovieFragmentBox:
		for _, child := range b.Children {
			printBox(child, depth+1)
		}
	case *f4v.BootstrapInfoBox:
		for _, srt := range b.SegmentRunTables {
			printBox(srt, depth+1)
		}
		for _, frt := range b.FragmentRunTables {
			printBox(frt, depth+1)
		}
	}
}

func boxInfo(box f4v.Box) string {
	switch b := box.(type) {
	case *f4v.BootstrapInfoBox:
		live := ""
		if b.Live {
			live = " live"
		}
		return fmt.Sprintf(" movie=%q timescale=%d mediaTime=%s%s",
			b.MovieIdentifier, b.TimeScale, formatTime(b), live)
	case *f4v.SegmentRunTable:
		return fmt.Sprintf(" entries=%d update=%t", len(b.Entries), b.Update)
	case *f4v.FragmentRunTable:
		return fmt.Sprintf(" entries=%d timescale=%d update=%t", len(b.Entries), b.TimeScale, b.Update)
	case *f4v.FragmentRandomAccessBox:
		return fmt.Sprintf(" local=%d global=%d timescale=%d",
			len(b.LocalEntries), len(b.GlobalEntries), b.TimeScale)
	case *f4v.MediaDataBox:
		return fmt.Sprintf(" dataLen=%d", len(b.Payload))
	case *f4v.ProtectionSystemSpecificHeaderBox:
		return fmt.Sprintf(" payloadLen=%d", len(b.Payload))
	case *f4v.MovieFragmentBox:
		return fmt.Sprintf(" children=%d", len(b.Children))
	case *f4v.UnimplementedBox:
		return " (skipped)"
	}
	return ""
}

func formatTime(b *f4v.BootstrapInfoBox) string {
	if b.CurrentMediaTime.IsZero() {
		return "n/a"
	}
	return b.CurrentMediaTime.Format("2006-01-02T15:04:05.000Z")
}
