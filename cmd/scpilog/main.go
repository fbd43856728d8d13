// scpilog polls a Kepco BOP power supply on a cron schedule and stores
// the measured voltage and current in sqlite.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/FenHarel95/pymeasure/comm"
	"github.com/FenHarel95/pymeasure/instruments/kepco"
)

var config struct {
	LogLevel string `json:"log_level"`
	Db       struct {
		Dsn string `json:"dsn"`
	} `json:"db"`
	Port          string          `json:"port"`
	ReadTimeoutMs uint32          `json:"read_timeout_ms"`
	Serial        comm.SerialMode `json:"serial"`
	Cron          string          `json:"cron"`
	Items         struct {
		Voltage string `json:"voltage"`
		Current string `json:"current"`
	} `json:"items"`
}

func initConfig() {
	cfgName := flag.String("config", "config.json", "Config file")
	flag.Parse()

	b, err := os.ReadFile(*cfgName)
	if err != nil {
		slog.Error("Read config", "error", err)
		os.Exit(1)
	}
	if err = json.Unmarshal(b, &config); err != nil {
		slog.Error("Parse config", "error", err)
		os.Exit(1)
	}
	var level slog.Level
	if err = level.UnmarshalText([]byte(config.LogLevel)); err == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
	if config.Items.Voltage == "" || config.Items.Current == "" {
		slog.Error("Item names cannot be empty")
		os.Exit(1)
	}
}

func main() {
	initConfig()

	if err := openDB(config.Db.Dsn); err != nil {
		slog.Error("Open database", "error", err)
		os.Exit(1)
	}
	defer closeDB()
	for _, item := range []string{config.Items.Voltage, config.Items.Current} {
		if err := makeSureTableExist(item); err != nil {
			slog.Error("Create table", "item", item, "error", err)
			os.Exit(1)
		}
	}

	port, err := comm.OpenSerial(config.Port, time.Duration(config.ReadTimeoutMs)*time.Millisecond, config.Serial)
	if err != nil {
		slog.Error("Open serial port", "port", config.Port, "error", err)
		os.Exit(1)
	}
	conn := comm.NewConn(port)
	defer func() { _ = conn.Close() }()
	if config.LogLevel == "debug" {
		if wireLog, err := zap.NewDevelopment(); err == nil {
			conn.SetLogger(wireLog)
		}
	}
	bop := kepco.New(conn)
	if id, err := bop.ID(); err != nil {
		slog.Warn("Identification query failed", "error", err)
	} else {
		slog.Info("Connected", "id", id)
	}

	cronJob := cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
	)), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	var inQuery atomic.Bool
	job := func() {
		// Determine if the supply is still being queried
		if !inQuery.CompareAndSwap(false, true) {
			slog.Warn("Query interval too short")
			return
		}
		defer inQuery.Store(false)

		msec := time.Now().UnixMilli()
		if v, err := bop.Voltage(); err != nil {
			slog.Error("Measure voltage", "error", err)
		} else if err = saveData(config.Items.Voltage, v, msec); err != nil {
			slog.Error("Save voltage", "error", err)
		}
		if i, err := bop.Current(); err != nil {
			slog.Error("Measure current", "error", err)
		} else if err = saveData(config.Items.Current, i, msec); err != nil {
			slog.Error("Save current", "error", err)
		}
	}
	if _, err = cronJob.AddFunc(config.Cron, job); err != nil {
		slog.Error("Add cron job", "cron", config.Cron, "error", err)
		os.Exit(1)
	}
	cronJob.Start()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	<-ch
	<-cronJob.Stop().Done()
}
