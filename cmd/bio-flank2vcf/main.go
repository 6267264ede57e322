// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/flank2vcf/probe"
)

var (
	mode        = flag.String("mode", "resolve", "'queries' writes the mate queries of the manifest as FASTQ; 'resolve' computes the alleles of every marker")
	samPath     = flag.String("sam", "", "SAM/BAM of the aligned mate queries, in manifest order, or '-' for stdin; if empty, manifest coordinates are used")
	samType     = flag.String("sam-type", "", "Format of -sam, 'sam' or 'bam'; if empty, guessed from the path, and stdin is read as SAM")
	outPath     = flag.String("out", "bio-flank2vcf.tsv", "Output path for -mode=resolve, or '-' for stdout; a .gz suffix compresses the output")
	leftShift   = flag.Bool("left-shift", probe.DefaultOpts.LeftShift, "Left-shift indel flanks before locating and resolving them")
	parallelism = flag.Int("parallelism", probe.DefaultOpts.Parallelism, "Maximum number of markers resolved concurrently; 0 = runtime.NumCPU()")
)

func bioFlank2vcfUsage() {
	fmt.Printf("Usage: %s -mode=queries [OPTIONS] manifest out.fq|-\n", os.Args[0])
	fmt.Printf("       %s -mode=resolve [OPTIONS] manifest fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioFlank2vcfUsage
	shutdown := grail.Init()
	defer shutdown()

	positionalArgs := flag.Args()
	if len(positionalArgs) != 2 {
		log.Fatalf("Expected two positional arguments; please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
	}
	ctx := vcontext.Background()
	var err error
	switch *mode {
	case "queries":
		err = writeQueries(ctx, positionalArgs[0], positionalArgs[1])
	case "resolve":
		opts := resolveOpts{
			Opts: probe.Opts{
				LeftShift:   *leftShift,
				Parallelism: *parallelism,
			},
			ManifestPath:  positionalArgs[0],
			ReferencePath: positionalArgs[1],
			AlignmentPath: *samPath,
			AlignmentType: *samType,
			OutPath:       *outPath,
		}
		err = resolve(ctx, opts)
	default:
		log.Fatalf("Unknown -mode %q; 'queries' or 'resolve' expected", *mode)
	}
	if err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
