package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fnscan/config"
	"fnscan/internal/adapter/emitter"
	"fnscan/internal/adapter/fs"
	"fnscan/internal/adapter/scanner"
)

func main() {
	dir := flag.String("dir", ".", "Directory whose config selects the source encoding")
	file := flag.String("file", "", "Source file to scan")
	synthetic := flag.Int("synthetic", 0, "Generate this many functions instead of reading a file")
	rounds := flag.Int("n", 100, "Number of scan rounds")
	flag.Parse()

	if *rounds <= 0 {
		*rounds = 1
	}

	if *file == "" && *synthetic <= 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -file src.c [-n 100]")
		fmt.Println("       go run cmd/benchmark/main.go -synthetic 10000 [-n 10]")
		os.Exit(1)
	}

	var source string
	if *file != "" {
		cfg, err := config.LoadFromDir(*dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		reader, err := fs.NewSourceReader(cfg.Scan.Encoding)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source, err = reader.Read(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading source: %v\n", err)
			os.Exit(1)
		}
	} else {
		source = generate(*synthetic)
	}

	fmt.Println("SCANNER BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Input size: %d bytes\n", len(source))
	fmt.Printf("Rounds:     %d\n", *rounds)
	fmt.Println(strings.Repeat("-", 70))

	var records int
	var scanTotal, emitTotal time.Duration
	for i := 0; i < *rounds; i++ {
		start := time.Now()
		recs, err := scanner.Scan(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scan error: %v\n", err)
			os.Exit(1)
		}
		scanTotal += time.Since(start)

		start = time.Now()
		emitter.Emit(recs)
		emitTotal += time.Since(start)
		records = len(recs)
	}

	perScan := scanTotal / time.Duration(*rounds)
	perEmit := emitTotal / time.Duration(*rounds)
	mbps := float64(len(source)) / perScan.Seconds() / (1 << 20)

	fmt.Printf("Functions per scan: %d\n", records)
	fmt.Printf("Scan:  %v/op (%.1f MiB/s)\n", perScan, mbps)
	fmt.Printf("Emit:  %v/op\n", perEmit)
}

func generate(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "int fn%d(int a, char b) { return a + %d; }", i, i)
	}
	return sb.String()
}
