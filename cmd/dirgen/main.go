package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/jdefrancesco/dirgen/internal/dgconfig"
	"github.com/jdefrancesco/dirgen/internal/dgcore"
	"github.com/jdefrancesco/dirgen/internal/dgdisk"
	"github.com/jdefrancesco/dirgen/internal/dgerr"
	"github.com/jdefrancesco/dirgen/internal/dglog"
)

const ver = "0.1.0"

func init() {
	flag.Usage = func() {
		fmt.Printf("Usage: dirgen [options] ROOT_DIR\n\n")
		flag.PrintDefaults()
	}
}

func main() {
	var (
		flNoBanner    = flag.Bool("no-banner", false, "Do not show the dirgen banner.")
		flShowVersion = flag.Bool("version", false, "Display version")
		flFiles       = flag.Uint64("files", 1000, "Target number of files.")
		flFilesExact  = flag.Bool("files-exact", false, "Require exactly --files files instead of a statistical target.")
		flBytes       = flag.Uint64("bytes", 0, "Target total bytes of file content. 0 disables content generation.")
		flBytesExact  = flag.Bool("bytes-exact", false, "Require exactly --bytes bytes instead of a statistical target.")
		flRatio       = flag.Uint64("ratio", 10, "Mean files-per-directory ratio.")
		flMaxDepth    = flag.Uint("max-depth", 3, "Maximum directory nesting depth.")
		flSeed        = flag.Uint64("seed", 0, "PRNG seed. 0 derives a seed from the current time.")
		flFillByte    = flag.Int("fill-byte", -1, "Fixed byte value (0-255) to fill file content with instead of pseudorandom bytes.")
		flParallelism = flag.Int("parallelism", 0, "Worker goroutines. 0 uses GOMAXPROCS.")
		flLogFile     = flag.String("log-file", "", "Write logs to this file instead of stderr.")
	)
	flag.Parse()

	dglog.Initialize(*flLogFile)

	if !*flNoBanner {
		showHeader()
	}
	if *flShowVersion {
		fmt.Printf("Version: %s\n\n", ver)
		return
	}

	rootDirs := flag.Args()
	if len(rootDirs) != 1 {
		fmt.Fprintln(os.Stderr, "[!] Exactly one ROOT_DIR argument is required.")
		flag.Usage()
		os.Exit(dgerr.ExitDataErr)
	}
	root := rootDirs[0]

	if err := checkEmptyRoot(root); err != nil {
		pterm.Error.Println(err)
		os.Exit(dgerr.ExitDataErr)
	}

	seed := *flSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var fillByte *byte
	if *flFillByte >= 0 {
		if *flFillByte > 255 {
			pterm.Error.Println("--fill-byte must be between 0 and 255")
			os.Exit(dgerr.ExitDataErr)
		}
		b := byte(*flFillByte)
		fillByte = &b
	}

	cfg, summary, err := dgconfig.Plan(root, *flFiles, *flFilesExact, *flBytes, *flBytesExact, fillByte, *flRatio, uint32(*flMaxDepth), seed)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(dgerr.ExitDataErr)
	}

	printPlan(cfg, summary)
	reportDiskSpace(root, *flBytes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	go func() {
		<-sigChan
		dglog.Log.Warn("received SIGINT, shutting down")
		fmt.Fprintln(os.Stderr, "\r[!] SIGINT! Stopping after in-flight tasks finish...")
		cancel()
	}()

	sched := dgcore.NewScheduler(cfg, *flParallelism)

	start := time.Now()
	spinner, _ := pterm.DefaultSpinner.Start("Generating...")

	stats, genErr := sched.Generate(ctx)
	duration := time.Since(start)

	if genErr != nil {
		spinner.Fail("Generation stopped early")
		dglog.Log.Errorf("generate: %v", genErr)
		pterm.Error.Println(genErr)
		printSummary(stats, duration)
		if derr, ok := genErr.(*dgerr.Error); ok {
			os.Exit(derr.Kind.ExitCode())
		}
		os.Exit(dgerr.ExitSoftware)
	}

	spinner.Success("Generation complete")
	printSummary(stats, duration)
}

// checkEmptyRoot enforces the precondition that root either doesn't exist
// yet or exists and is empty; dirgen never generates into a directory that
// already has content.
func checkEmptyRoot(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(root, 0o775); mkErr != nil {
				return dgerr.Wrap(dgerr.InvalidEnvironment, "create root directory", root, mkErr)
			}
			return nil
		}
		return dgerr.Wrap(dgerr.InvalidEnvironment, "read root directory", root, err)
	}
	if len(entries) > 0 {
		return dgerr.Wrap(dgerr.InvalidEnvironment, "check root directory is empty", root, fmt.Errorf("directory is not empty"))
	}
	return nil
}

func reportDiskSpace(root string, wantBytes uint64) {
	const headroom = 64 * 1024 * 1024
	exceeds, usage, err := dgdisk.WouldExceedAvailable(root, wantBytes, headroom)
	if err != nil {
		dglog.Log.Warnf("disk space preflight failed: %v", err)
		return
	}
	pterm.Info.Printf("Disk: %s available of %s on %s\n",
		dgdisk.FormatSize(usage.Avail), dgdisk.FormatSize(usage.Total), usage.MountPoint)
	if exceeds {
		pterm.Warning.Printf("Planned content (%s) may exceed available space.\n", humanize.Bytes(wantBytes))
	}
}

func printPlan(cfg dgconfig.Configuration, summary dgconfig.PlanSummary) {
	pterm.DefaultSection.Println("Plan")
	pterm.Printf("Root: %s\n", cfg.RootDir)
	pterm.Printf("Target files: %s", humanize.Comma(int64(cfg.Files)))
	if cfg.FilesExact {
		pterm.Printf(" (exact)")
	}
	pterm.Println()
	if cfg.Bytes > 0 {
		pterm.Printf("Target bytes: %s", humanize.Bytes(cfg.Bytes))
		if cfg.BytesExact {
			pterm.Printf(" (exact)")
		}
		pterm.Println()
	}
	pterm.Printf("Max depth: %d\n", cfg.MaxDepth)
	pterm.Printf("Directories (estimate): %s, mean fanout %.2f\n", humanize.Comma(int64(summary.InformationalTotalDirs)), cfg.DirsPerDir)
	pterm.Printf("Seed: %d\n", cfg.Seed)
}

func printSummary(stats dgcore.Stats, duration time.Duration) {
	pterm.DefaultSection.Println("Summary")
	pterm.Println(pterm.LightWhite("Files: ") + humanize.Comma(int64(stats.FilesGenerated)))
	pterm.Println(pterm.LightWhite("Dirs: ") + humanize.Comma(int64(stats.DirsGenerated)))
	pterm.Println(pterm.LightWhite("Bytes: ") + humanize.Bytes(stats.BytesGenerated))
	pterm.Println(pterm.LightWhite("Time: ") + duration.String())
}

func showHeader() {
	fmt.Println("")
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("dir", pterm.NewStyle(pterm.FgLightGreen)),
		putils.LettersFromStringWithStyle("gen", pterm.NewStyle(pterm.FgLightWhite))).
		Render()
}
