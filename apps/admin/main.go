package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/storage/database"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB; the memory engine has nothing to administer
	var (
		db  *sqlx.DB
		svc grading.ServiceInterface
	)
	if conf.Database.Engine != database.EngineMemory {
		var err error
		db, err = database.Connect(context.Background(), conf)
		errAndDie(err)
		svc = grading.NewService(sqlxrepos.NewStore(db))
	}

	// start CLI
	cli := commandLine{
		db:  db,
		svc: svc,
		out: os.Stdout,
	}
	err := cli.run(os.Args)
	if db != nil {
		_ = db.Close()
	}
	if err != nil {
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
