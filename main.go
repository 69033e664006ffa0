package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/zipshard/zipshard/internal/salvage"
	"github.com/zipshard/zipshard/internal/scanner"
	"github.com/zipshard/zipshard/internal/zipfmt"
)

func main() {
	slog.SetDefault(newLogger())

	if len(os.Args) < 2 {
		os.Exit(1)
	}
	dumpfile := os.Args[1]

	f, err := os.Open(dumpfile)
	if err != nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return
	}

	eocds, err := scanner.FindAllAt(f, info.Size(), zipfmt.EOCDMagic)
	if err != nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return
	}
	if len(eocds) == 0 {
		slog.Info("no EOCD candidates found, nothing to recover", "file", dumpfile)
		return
	}

	blob, err := io.ReadAll(f)
	if err != nil {
		fmt.Fprintln(os.Stdout, err.Error())
		return
	}

	results, err := salvage.Run(context.Background(), blob, calcPageSize())
	if err != nil {
		slog.Error("reconstruction aborted", "err", err)
		return
	}

	for _, r := range results {
		name := strconv.Itoa(r.Index) + ".zip"
		if err := os.WriteFile(name, r.Bytes, 0o644); err != nil {
			slog.Warn("write failed", "file", name, "err", err)
			continue
		}
		slog.Debug("wrote archive", "file", name, "bytes", len(r.Bytes))
	}
}
