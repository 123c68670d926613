// Package libmain provides common main function which does extra work
package libmain

import (
	"flag"
	"fmt"
	golog "log"
	"log/syslog"
	"os"
	"path"

	"github.com/mapfish/mapfish-print-sub001/mfp/log"

	"github.com/kardianos/osext"
	"github.com/spf13/pflag"
)

var (
	// Set with -ldflags "-X .../libmain.VersionNumber=..."
	VersionNumber = "dev"
	VersionDate   = "unknown"

	PrintVersion bool
)

func init() {
	pflag.BoolVar(&PrintVersion, "version", false, "Print version then exit")
}

// Main parses the command line (pflag, with the go flags registered by other
// packages merged in), sets up logging and runs realMain. A returned error is
// logged and turns into exit status 1.
func Main(realMain func() error) {
	os.Exit(run(os.Args[1:], realMain))
}

func run(args []string, realMain func() error) int {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	if err := pflag.CommandLine.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log.RegisterTracers()

	exe, err := osext.Executable()
	if err != nil {
		golog.Printf("Cannot find executable: %v", err)
		exe = os.Args[0]
	}

	if PrintVersion {
		fmt.Printf("mapfish %v version: %v build date %v\n",
			path.Base(exe), VersionNumber, VersionDate)
		return 0
	}

	log.Init(path.Base(exe))
	golog.SetFlags(0)
	golog.SetOutput(log.NewLevelWriter(syslog.LOG_INFO))

	if err := realMain(); err != nil {
		log.Error("%v: %v", path.Base(exe), err)
		return 1
	}
	return 0
}
