package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/cyberset/internal/testutil"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		out     = flag.String("out", "testdata/source", "Directory to write the source tree to")
		classes = flag.Int("classes", 4, "Number of classes")
		samples = flag.Int("samples", 8, "Number of samples per class")
		prefix  = flag.String("prefix", "NILF", "Four-character class code prefix")
		verbose = flag.Bool("v", false, "Verbose output")
		help    = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate a synthetic source tree for cyberset.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                           # 4 classes with 8 samples each\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -classes 20 -samples 3    # many small classes\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if len(*prefix) != 4 {
		slog.Error("Class code prefix must have four characters", "prefix", *prefix)
		os.Exit(1)
	}

	slog.Info("Generating source tree", "out", *out, "classes", *classes, "samples", *samples)

	for i := range *classes {
		code := fmt.Sprintf("%s%04d", *prefix, i)
		fixture := testutil.NewClassFixture(code, *samples)
		// Alternate portrait and landscape samples to exercise letterboxing.
		if i%2 == 1 {
			fixture.Size = testutil.LandscapeSize
		}
		dir, err := testutil.WriteClassFiles(*out, fixture)
		if err != nil {
			slog.Error("Failed to write class", "code", code, "error", err)
			os.Exit(1)
		}
		if *verbose {
			slog.Info("Wrote class", "code", code, "dir", dir)
		}
	}

	slog.Info("Source tree generation completed", "out", *out)
}
