package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/chamadasimples/chamada/core/attendance"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store *attendance.Store
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  register -name NAME [-subject SUBJECT] - initialize the teacher profile (password prompted)")
	fmt.Println("  export -out FILE                       - export the full database snapshot")
	fmt.Println("  import -in FILE                        - import a snapshot, replacing the database")
	fmt.Println("  info                                   - show profile and record counts")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	registerCmd := flag.NewFlagSet("register", flag.ExitOnError)
	registerName := registerCmd.String("name", "", "The teacher's name. The password will be prompted next.")
	registerSubject := registerCmd.String("subject", "", "The default subject for new classes.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("out", "", "Destination file for the snapshot.")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importIn := importCmd.String("in", "", "Snapshot file to import.")

	switch args[1] {
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *registerName == "" {
			registerCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			registerCmd.Usage()
			return errHelp
		}
		return cli.register(*registerName, string(pwd), *registerSubject)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.doImport(*importIn)
	case "info":
		return cli.info()
	default:
		cli.printUsage()
		return errHelp
	}
}
