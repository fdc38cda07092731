/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command bcompress is a thin CLI front-end over the stream package.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	cliutil "github.com/blockstream-go/bcodec/cmd/internal"
	"github.com/blockstream-go/bcodec/stream"
)

const (
	_DEFAULT_BLOCK_SIZE = uint(4 * 1024 * 1024)
	_DEFAULT_JOBS       = uint(1)
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var input, output, codec, transformName string
	blockSize := _DEFAULT_BLOCK_SIZE
	jobs := _DEFAULT_JOBS
	checksum := false
	verbosity := uint(1)

	codec = "HUFFMAN"
	transformName = "BWT"

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--input="):
			input = strings.TrimPrefix(arg, "--input=")

		case strings.HasPrefix(arg, "--output="):
			output = strings.TrimPrefix(arg, "--output=")

		case strings.HasPrefix(arg, "--codec="):
			codec = strings.TrimPrefix(arg, "--codec=")

		case strings.HasPrefix(arg, "--transform="):
			transformName = strings.TrimPrefix(arg, "--transform=")

		case strings.HasPrefix(arg, "--block="):
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--block="))

			if err != nil || v <= 0 {
				fmt.Fprintf(os.Stderr, "Invalid block size: %v\n", arg)
				return 1
			}

			blockSize = uint(v)

		case strings.HasPrefix(arg, "--jobs="):
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--jobs="))

			if err != nil || v <= 0 {
				fmt.Fprintf(os.Stderr, "Invalid number of jobs: %v\n", arg)
				return 1
			}

			jobs = uint(v)

		case arg == "--checksum":
			checksum = true

		case strings.HasPrefix(arg, "--verbose="):
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--verbose="))

			if err != nil || v < 0 {
				fmt.Fprintf(os.Stderr, "Invalid verbosity level: %v\n", arg)
				return 1
			}

			verbosity = uint(v)

		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %v\n", arg)
			return 1
		}
	}

	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "Usage: bcompress --input=<file> --output=<file> [--codec=NAME] [--transform=NAME] [--block=SIZE] [--jobs=N] [--checksum] [--verbose=N]")
		return 1
	}

	in, err := os.Open(input)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open input file: %v\n", err)
		return 1
	}

	defer in.Close()

	out, err := os.Create(output)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output file: %v\n", err)
		return 1
	}

	defer out.Close()

	cos, err := stream.NewCompressedOutputStream(out, codec, transformName, blockSize, jobs, checksum)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create compressed stream: %v\n", err)
		return 1
	}

	if verbosity >= 1 {
		listener, err := cliutil.NewVerboseListener(os.Stdout, verbosity)

		if err == nil {
			cos.AddListener(listener)
		}
	}

	buf := make([]byte, 64*1024)
	written := int64(0)

	for {
		n, rerr := in.Read(buf)

		if n > 0 {
			if _, werr := cos.Write(buf[0:n]); werr != nil {
				reportIOError(werr)
				cos.Close()
				return 1
			}

			written += int64(n)
		}

		if rerr != nil {
			break
		}
	}

	if err := cos.Close(); err != nil {
		reportIOError(err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Compressed %d bytes into %d bytes\n", written, cos.GetWritten())
	return 0
}

func reportIOError(err error) {
	if ioErr, ok := err.(*stream.IOError); ok {
		fmt.Fprintf(os.Stderr, "%v (code %d)\n", ioErr.Message(), ioErr.ErrorCode())
		return
	}

	fmt.Fprintf(os.Stderr, "%v\n", err)
}
