package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

func openDB(dsn string) (err error) {
	db, err = sql.Open("sqlite3", dsn)
	return err
}

func closeDB() {
	_ = db.Close()
}

func makeSureTableExist(name string) (err error) {
	_, err = db.Exec(`create table if not exists ` + name + `
(
    timestamp int              not null,
    value     double precision not null
);
create index if not exists ` + name + `_timestamp_index on ` + name + ` (timestamp);`)
	return err
}

func saveData(itemName string, val float64, msec int64) error {
	_, err := db.Exec("insert"+" into "+itemName+" (timestamp, value) VALUES (?,?)", msec, val)
	return err
}
