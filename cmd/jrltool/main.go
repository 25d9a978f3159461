/*
jrltool: inspect and convert testbox journals.

CLI usage:

	jrltool dump <journal> [--test ID] [--format table|yaml]
	jrltool last <journal> <id>
	jrltool convert <src> <dst>

Journals ending in .db or .sqlite are SQLite databases, anything else is a
YAML stream. The output format may also be set through JRLTOOL_FORMAT.
*/
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true})

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		log.WithError(err).Fatal("jrltool failed")
	}
}
