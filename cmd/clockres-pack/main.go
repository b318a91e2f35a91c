// Command clockres-pack packs a watchface source directory into a
// res-blob binary, the Go equivalent of the original gen_clock.py tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	clockres "github.com/dtno1/clockres"
	"github.com/dtno1/clockres/blob"
	"github.com/dtno1/clockres/diag"
	"github.com/dtno1/clockres/format"
)

func main() {
	var (
		clockID    = flag.Uint("clock-id", 0, "clock id base in [50000,65535]; auto-detected from the source folder name if omitted")
		faceSize   = flag.String("face-size", "", "force the resolution as W_H, e.g. 454_454; autodetected from the first layer image if omitted")
		idle       = flag.Bool("idle", false, "use the idle-mode magic string")
		noCompress = flag.Bool("no-compress", false, "disable LZ4 compression of device-RGB chunks")
		thumbnail  = flag.String("thumbnail", "", "override thumbnail filename detection")
		logPath    = flag.String("log-file", "", "rotating diagnostic log path (10MiB cap, 1 backup)")
		reportPath = flag.String("report", "", "write a compressed build report to this path")
		reportAlgo = flag.String("report-compression", "s2", "build report compression: none, lz4, s2, or zstd")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: clockres-pack [flags] <src-dir> <out-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	srcDir, outPath := flag.Arg(0), flag.Arg(1)

	sink, err := diag.NewSink(os.Stderr, *logPath, 0)
	if err != nil {
		log.Fatalf("clockres-pack: %v", err)
	}
	defer sink.Close()

	var opts []blob.PackOption
	if *clockID != 0 {
		opts = append(opts, blob.WithClockID(uint32(*clockID)))
	}
	if *faceSize != "" {
		w, h, err := parseFaceSize(*faceSize)
		if err != nil {
			log.Fatalf("clockres-pack: %v", err)
		}
		opts = append(opts, blob.WithFaceSize(w, h))
	}
	if *idle {
		opts = append(opts, blob.WithIdleMagic())
	}
	if *noCompress {
		opts = append(opts, blob.WithoutCompression())
	}
	if *thumbnail != "" {
		opts = append(opts, blob.WithThumbnail(*thumbnail))
	}

	report, err := clockres.PackDir(srcDir, outPath, sink, opts...)
	if err != nil {
		log.Fatalf("clockres-pack: %v", err)
	}

	if *reportPath != "" {
		algo, err := parseReportCompression(*reportAlgo)
		if err != nil {
			log.Fatalf("clockres-pack: %v", err)
		}
		data, err := report.Report.MarshalCompressed(algo)
		if err != nil {
			log.Fatalf("clockres-pack: marshal report: %v", err)
		}
		if err := os.WriteFile(*reportPath, data, 0o644); err != nil {
			log.Fatalf("clockres-pack: write report: %v", err)
		}
	}

	fmt.Printf("packed %s -> %s (clock_id=%d)\n", srcDir, outPath, report.Report.ClockID)
}

func parseReportCompression(s string) (format.CompressionType, error) {
	switch strings.ToLower(s) {
	case "none":
		return format.CompressionNone, nil
	case "lz4":
		return format.CompressionLZ4, nil
	case "s2":
		return format.CompressionS2, nil
	case "zstd":
		return format.CompressionZstd, nil
	default:
		return 0, fmt.Errorf("invalid --report-compression %q, expected none, lz4, s2, or zstd", s)
	}
}

// parseFaceSize parses the underscore-separated W_H form used by
// g_clock_id_prefix_dict's keys in the original gen_clock.py tool (e.g.
// "454_454"), not a WxH form.
func parseFaceSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid --face-size %q, expected W_H", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --face-size width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --face-size height %q: %w", parts[1], err)
	}
	return w, h, nil
}
