package main

import (
	"bytes"
	"strings"
	"testing"

	"gitlab-youtrack-automation/config"
	"gitlab-youtrack-automation/internal/definition"
)

func TestPrintRoutes(t *testing.T) {
	rules, err := config.ReadRules("yaml", strings.NewReader(`
gitlab:
  on-pipeline:
    started: mark
    failed: [mark, flag]
  on-merge-request: [mark]
operations:
  mark:
    type: ChangeTasks
  flag:
    type: ChangeTasks
`))
	if err != nil {
		t.Fatalf("ReadRules() error = %v", err)
	}
	table, err := definition.Load(rules)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var buf bytes.Buffer
	printRoutes(&buf, table)

	want := "on-pipeline/failed: [mark flag]\n" +
		"on-pipeline/started: [mark]\n" +
		"on-merge-request/merged: [mark]\n"
	if got := buf.String(); got != want {
		t.Errorf("printRoutes() =\n%s\nwant\n%s", got, want)
	}
}
