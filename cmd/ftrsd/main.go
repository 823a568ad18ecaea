package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"

	"github.com/sensorfab/testreport-sdk/pkg/devicetype"
	"github.com/sensorfab/testreport-sdk/pkg/observability"
	"github.com/sensorfab/testreport-sdk/pkg/rows"
	"github.com/sensorfab/testreport-sdk/pkg/server/controller"
	"github.com/sensorfab/testreport-sdk/pkg/server/httpsrv"
	"github.com/sensorfab/testreport-sdk/pkg/storage"
	"github.com/sensorfab/testreport-sdk/pkg/transform"
)

func assertNoError(ctx context.Context, err error) {
	if err != nil {
		logger.FromCtx(ctx).Fatalf("%v", err)
	}
}

func usageExit() {
	pflag.Usage()
	os.Exit(2) // The default Go's exitcode on flag.Parse() problems
}

func main() {
	logLevel := logger.LevelInfo // the default value
	dbAddr := os.Getenv("DBHOST")
	if dbAddr == "" {
		dbAddr = "127.0.0.1:3306"
	}
	defaultDSN := (&mysql.Config{
		User:      os.Getenv("DBUSER"),
		Passwd:    os.Getenv("DBPASS"),
		Net:       "tcp",
		Addr:      dbAddr,
		DBName:    "ftrs",
		ParseTime: true,
	}).FormatDSN()

	pflag.Var(&logLevel, "log-level", "logging level")
	netPprofAddr := pflag.String("net-pprof-addr", "", "if non-empty then listens with net/http/pprof")
	httpBindAddr := pflag.String("http-bind-addr", `:17745`, "the address to listen for HTTP requests")
	rdbmsDriver := pflag.String("rdbms-driver", "mysql", "")
	rdbmsDSN := pflag.String("rdbms-dsn", defaultDSN, "")
	pflag.Parse()
	if pflag.NArg() != 0 {
		usageExit()
	}

	ctx := observability.WithBelt(
		context.Background(),
		logLevel,
		"FTRS", true,
	)

	log := logger.FromCtx(ctx)

	if *netPprofAddr != "" {
		go func() {
			err := http.ListenAndServe(*netPprofAddr, nil)
			log.Errorf("unable to start listening for https/net/pprof: %v", err)
		}()
	}

	stor, err := storage.New(*rdbmsDriver, *rdbmsDSN, rows.DefaultTables(), log.WithField("module", "storage"))
	assertNoError(ctx, err)
	defer func() {
		if err := stor.Close(); err != nil {
			log.Errorf("unable to close the storage: %v", err)
		}
	}()

	ctrl := controller.New(stor, stor.Tables, devicetype.DefaultRegistry(), transform.DefaultATPFields())
	log.Debugf("created a controller")

	srv := httpsrv.NewServer(ctrl, logLevel)
	log.Infof("listening on '%s'", *httpBindAddr)
	assertNoError(ctx, srv.Serve(ctx, *httpBindAddr))
}
