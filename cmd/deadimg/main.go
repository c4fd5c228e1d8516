package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arxeiss/deadimg/analysis"

	_ "embed"
)

var (
	//go:embed doc.go
	doc string

	debugFlag = flag.Bool("debug", false, "enable debug output")
	helpFlag  = flag.Bool("help", false, "show help")

	configFlag = flag.String("config", "", "YAML file overriding default asset and reference roots")
	csvFlag    = flag.String("csv", "unused_images.csv",
		"write unused images into this CSV file, empty string disables it")
	jobsFlag    = flag.Int("jobs", 1, "number of images matched concurrently")
	cacheFlag   = flag.Bool("cache", false, "keep reference file contents in memory between images")
	explainFlag = flag.Bool("explain", false, "print where and how every used image was matched")
	jsonFlag    = flag.Bool("json", false, "output JSON report")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 || *helpFlag {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	runner := analysis.New(os.Stdout, os.Stderr, flag.Arg(0))
	runner.DebugFlag = *debugFlag
	runner.JSONFlag = *jsonFlag
	runner.CacheFlag = *cacheFlag
	runner.ExplainFlag = *explainFlag
	runner.CSVPath = *csvFlag
	runner.Jobs = *jobsFlag

	if *configFlag != "" {
		cfg, err := analysis.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			cancel()
			os.Exit(1)
		}
		runner.Config = cfg
	}

	err := runner.Run(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func usage() {
	// Extract the content of the /* ... */ comment in doc.go.
	_, after, _ := strings.Cut(doc, "/*\n")
	doc, _, _ := strings.Cut(after, "*/")
	_, _ = os.Stderr.WriteString(doc + `
Flags:

`)
	flag.PrintDefaults()
}
