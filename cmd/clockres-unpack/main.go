// Command clockres-unpack disassembles a res-blob binary back into a
// watchface source directory, or batch-unpacks a directory tree of them,
// the Go equivalent of the original unpack_all.py tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	clockres "github.com/dtno1/clockres"
	"github.com/dtno1/clockres/blob"
	"github.com/dtno1/clockres/diag"
)

func main() {
	var (
		minChunkLen  = flag.Uint("min-chunk-len", 16, "minimum candidate chunk length the chunk index will confirm")
		areaNumCount = flag.Int("area-num-count", 4, "width of a layer's area_num field")
		logPath      = flag.String("log-file", "", "rotating diagnostic log path (10MiB cap, 1 backup)")
		batch        = flag.Bool("batch", false, "treat <src> as a root directory and unpack every matching subdirectory")
		glob         = flag.String("glob", "Clock*_res", "batch mode directory glob")
		outRoot      = flag.String("out-root", "", "batch mode: unpack all matches under this directory instead of alongside src")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: clockres-unpack [flags] <src> <out-dir>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	src, outDir := flag.Arg(0), flag.Arg(1)

	sink, err := diag.NewSink(os.Stderr, *logPath, 0)
	if err != nil {
		log.Fatalf("clockres-unpack: %v", err)
	}
	defer sink.Close()

	opts := []blob.UnpackOption{
		blob.WithMinChunkLen(uint32(*minChunkLen)),
		blob.WithAreaNumCount(*areaNumCount),
	}

	if *batch {
		unpacked, err := clockres.UnpackBatch(context.Background(), src, *glob, *outRoot, sink, opts...)
		if err != nil {
			log.Fatalf("clockres-unpack: %v", err)
		}
		for _, dir := range unpacked {
			fmt.Println(dir)
		}
		return
	}

	if _, err := clockres.UnpackDir(src, outDir, sink, opts...); err != nil {
		log.Fatalf("clockres-unpack: %v", err)
	}
	fmt.Printf("unpacked %s -> %s\n", src, outDir)
}
