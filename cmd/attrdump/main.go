package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/ntfsgo/ntfs/attr"
	"github.com/ntfsgo/ntfs/internal/cmdlog"
	"github.com/ntfsgo/ntfs/structured"
	"github.com/ntfsgo/ntfs/volume"
)

const (
	exitCodeUserError int = iota + 2
	exitCodeFunctionalError
	exitCodeTechnicalError
)

func main() {
	verboseFlag := flag.Bool("v", false, "verbose; print details about what's going on")
	mmapFlag := flag.Bool("mmap", false, "memory-map the volume instead of reading it with positioned reads")

	flag.Usage = printUsage
	flag.Parse()

	cmdlog.Init(*verboseFlag)
	args := flag.Args()

	if len(args) != 2 {
		printUsage()
		os.Exit(exitCodeUserError)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	volumePath := args[0]
	recordNumber, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fatalf(exitCodeUserError, "Invalid record number %q: %v\n", args[1], err)
	}

	cmdlog.L.Debug("opening volume", "path", volume.DevicePath(volumePath), "mmap", *mmapFlag)
	source, err := openSource(volumePath, *mmapFlag)
	if err != nil {
		fatalf(exitCodeTechnicalError, "Unable to open volume using path %s: %v\n", volumePath, err)
	}
	defer source.Close()

	fs, err := volume.Open(ctx, source)
	if err != nil {
		fatalf(exitCodeFunctionalError, "Unable to open volume: %v\n", err)
	}

	fr, err := fs.File(ctx, recordNumber)
	if err != nil {
		fatalf(exitCodeFunctionalError, "Unable to load file record %d: %v\n", recordNumber, err)
	}

	it := fs.Attributes(ctx, &fr)
	for it.Next() {
		a := it.Attribute()
		printAttribute(ctx, fs, a)
	}
	if err := it.Err(); err != nil {
		fatalf(exitCodeTechnicalError, "Error walking attributes: %v\n", err)
	}
}

// openSource picks the ByteSource implementation matching --mmap: a memory-mapped image for
// forensic work against a static file, or plain positioned reads otherwise.
func openSource(volumePath string, mmap bool) (volume.ByteSource, error) {
	if mmap {
		return volume.OpenMapped(volumePath)
	}
	return volume.OpenFile(volumePath)
}

func printAttribute(ctx context.Context, fs *volume.Filesystem, a *attr.Attribute) {
	ty, err := a.Type()
	if err != nil {
		fmt.Printf("(unsupported attribute at position %d: %v)\n", a.Position(), err)
		return
	}

	name, err := a.Name()
	if err != nil {
		fmt.Printf("%s (unable to read name: %v)\n", ty.Name(), err)
		return
	}

	residency := "resident"
	if !a.IsResident() {
		residency = "non-resident"
	}
	fmt.Printf("%s name=%q instance=%d %s\n", ty.Name(), name, a.Instance(), residency)

	switch ty {
	case attr.TypeStandardInformation:
		si, err := attr.ResidentStructuredValue(a, attr.TypeStandardInformation, structured.DecodeStandardInformation)
		if err == nil {
			fmt.Printf("  created=%s modified=%s\n", si.Creation, si.FileLastModified)
		}
	case attr.TypeFileName:
		fn, err := attr.ResidentStructuredValue(a, attr.TypeFileName, structured.DecodeFileName)
		if err == nil {
			fmt.Printf("  name=%q\n", fn.Name)
		}
	case attr.TypeVolumeName:
		vn, err := attr.ResidentStructuredValue(a, attr.TypeVolumeName, structured.DecodeVolumeName)
		if err == nil {
			fmt.Printf("  name=%q\n", vn.Name)
		}
	default:
		v, err := a.Value(ctx, fs, fs.Reader(), fs.BytesPerCluster())
		if err != nil {
			fmt.Printf("  (unable to read value: %v)\n", err)
			return
		}
		fmt.Printf("  value size=%d\n", v.Length())
		if _, err := io.Copy(io.Discard, v); err != nil {
			fmt.Printf("  (error reading value: %v)\n", err)
		}
	}
}

func printUsage() {
	out := os.Stderr
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(out, "\nusage: %s [flags] <volume> <record number>\n\n", exe)
	fmt.Fprintln(out, "List the attributes of one file record on an NTFS volume.")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nFor example: %s -v /dev/sdb1 42\n", exe)
}

func fatalf(exitCode int, format string, v ...interface{}) {
	fmt.Printf(format, v...)
	os.Exit(exitCode)
}
