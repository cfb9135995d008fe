package main

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, Analyzer,
		"panic",
		"main_in_main",
		"main_outside_main",
		"nonmain_exit",
		"log_fatalf",
		"stdout_print",
	)
}
