/*
 * VPD - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Command vpdparse reads a single VPD image from disk, parses it, and
// prints the decoded record/keyword tree. It is a demonstrator for
// package vpd, not a management tool: no bus publishing, no device-tree
// walking, no backup/restore.
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/vpd"
	"github.com/rcornwell/vpd/internal/keyword"
	"github.com/rcornwell/vpd/util/logger"
	"github.com/rcornwell/vpd/util/sink"
)

var Logger *slog.Logger

func main() {
	optFile := getopt.StringLong("file", 'f', "", "VPD image to parse")
	optBase := getopt.Int64Long("base", 'b', 0, "Base offset for ECC write-back addressing")
	optFix := getopt.BoolLong("fix", 'x', "Write corrected ECC regions back to file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
	slog.SetDefault(Logger)

	if *optFile == "" {
		Logger.Error("Please specify a VPD image with -file")
		os.Exit(1)
	}

	buf, err := os.ReadFile(*optFile)
	if err != nil {
		Logger.Error("Cannot read VPD image", "file", *optFile, "error", err)
		os.Exit(1)
	}

	var writeBack vpd.WriteBackSink
	if *optFix {
		fileSink := sink.NewFileSink()
		if err := fileSink.Attach(*optFile); err != nil {
			Logger.Error("Cannot attach write-back sink", "error", err)
			os.Exit(1)
		}
		defer fileSink.Detach()
		writeBack = fileSink
	}

	result, err := vpd.Parse(buf, *optFile, *optBase, writeBack, Logger)
	if err != nil {
		Logger.Error("Parse failed", "error", err)
		os.Exit(1)
	}

	printResult(result)
}

func printResult(result vpd.Result) {
	fmt.Printf("Kind: %s\n", result.Kind)

	switch result.Kind {
	case vpd.KindIPZ:
		for recName, kws := range result.IPZ.Records {
			fmt.Printf("Record %s:\n", recName)
			for name, raw := range kws {
				printKeyword(name, raw)
			}
		}

	case vpd.KindKeywordVPD:
		for name, raw := range result.KeywordVPD.Keywords {
			printKeyword(name, raw)
		}

	case vpd.KindDDIMM:
		d := result.DDIMM
		fmt.Printf("  MemorySizeInKB: %d\n", d.MemorySizeInKB)
		fmt.Printf("  FN: %s\n", string(d.FN))
		fmt.Printf("  PN: %s\n", string(d.PN))
		fmt.Printf("  SN: %s\n", string(d.SN))
		fmt.Printf("  CC: %s\n", string(d.CC))

	case vpd.KindUnsupported:
		fmt.Printf("  Unsupported format: %s\n", result.Unsupported)
	}

	for _, d := range result.Diagnostics {
		fmt.Printf("  [%s] %s %s\n", d.Kind, d.Record, d.Message)
	}
}

func printKeyword(name string, raw []byte) {
	decoded, err := keyword.Decode(name, raw, false)
	if err != nil {
		fmt.Printf("  %s: <%v>\n", name, err)
		return
	}
	fmt.Printf("  %s: %s\n", name, decoded)
}
