package main

import (
	"log"
	"os"

	"github.com/chamadasimples/chamada/core"
	"github.com/chamadasimples/chamada/core/attendance"
	logsvc "github.com/chamadasimples/chamada/services/logger"
	"github.com/chamadasimples/chamada/storage/snapshot"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// load the persisted Database
	file := snapshot.NewFile(conf.SnapshotPath)
	db, err := file.Load()
	errAndDie(err)

	// start CLI
	cli := commandLine{
		store: attendance.NewStore(db, file, logsvc.NewStdLogger(logger)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
