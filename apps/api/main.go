package main

import (
	"log"
	"os"

	echoapi "github.com/chamadasimples/chamada/apps/api/echo"
	"github.com/chamadasimples/chamada/core"
	"github.com/chamadasimples/chamada/core/attendance"
	logsvc "github.com/chamadasimples/chamada/services/logger"
	"github.com/chamadasimples/chamada/storage/snapshot"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up services
	var logger core.Logger = logsvc.NewStdLogger(std)
	if !conf.Debug && conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// load the persisted Database and hand it to the store
	file := snapshot.NewFile(conf.SnapshotPath)
	db, err := file.Load()
	errAndDie(err)
	store := attendance.NewStore(db, file, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:  conf.ServerAddress(),
			Debug:    conf.Debug,
			TestMode: conf.TestMode,
			Store:    store,
			Logger:   logger,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
