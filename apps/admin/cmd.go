package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/portal"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf  *core.Config
	api   portal.API
	ctrl  *portal.Controller
	out   io.Writer
	color bool
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  schedule -classe CLASS [-trimestre all|1-4] - print the schedule of a class")
	fmt.Fprintln(cli.out, "  lessons [-trimestre all|1-4] - list the lesson materials")
	fmt.Fprintln(cli.out, "  export -classe CLASS [-trimestre all|1-4] -out FILE.xlsx - write the schedule of a class as a spreadsheet")
	fmt.Fprintln(cli.out, "  manifest - check the offline cache manifest")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	scheduleCmd := cli.flagSet("schedule")
	scheduleClass := scheduleCmd.String("classe", "", "The class name, eg: Adultos.")
	scheduleTrimester := scheduleCmd.String("trimestre", core.TrimesterAll, "The trimester to show.")

	lessonsCmd := cli.flagSet("lessons")
	lessonsTrimester := lessonsCmd.String("trimestre", core.TrimesterAll, "The trimester to show.")

	exportCmd := cli.flagSet("export")
	exportClass := exportCmd.String("classe", "", "The class name, eg: Adultos.")
	exportTrimester := exportCmd.String("trimestre", core.TrimesterAll, "The trimester to export.")
	exportOut := exportCmd.String("out", "", "The spreadsheet to write.")

	switch args[1] {
	case "schedule":
		if err := scheduleCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if core.CleanString(*scheduleClass) == "" || !core.IsTrimester(*scheduleTrimester) {
			scheduleCmd.Usage()
			return errHelp
		}
		return cli.usageOnArgumentError(scheduleCmd, cli.printSchedule(*scheduleClass, *scheduleTrimester))
	case "lessons":
		if err := lessonsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if !core.IsTrimester(*lessonsTrimester) {
			lessonsCmd.Usage()
			return errHelp
		}
		return cli.printLessons(*lessonsTrimester)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if core.CleanString(*exportClass) == "" || *exportOut == "" || !core.IsTrimester(*exportTrimester) {
			exportCmd.Usage()
			return errHelp
		}
		return cli.usageOnArgumentError(exportCmd, cli.exportSchedule(*exportClass, *exportTrimester, *exportOut))
	case "manifest":
		return cli.checkManifest()
	default:
		cli.printUsage()
		return errHelp
	}
}

// usageOnArgumentError reports a rejected argument along with the usage of fs.
func (cli *commandLine) usageOnArgumentError(fs *flag.FlagSet, err error) error {
	if !core.IsArgumentError(err) {
		return err
	}
	fmt.Fprintf(cli.out, "%s: %v\n", fs.Name(), err)
	fs.Usage()
	return errHelp
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// bold highlights s when writing to a terminal.
func (cli *commandLine) bold(s string) string {
	if !cli.color {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}

func (cli *commandLine) dim(s string) string {
	if !cli.color {
		return s
	}
	return "\x1b[2m" + s + "\x1b[0m"
}
