package main

import (
	"io"
	"os"
	"testing"

	applog "github.com/sandeepkv93/lifecal/internal/log"
)

func TestMain(m *testing.M) {
	applog.SetOutput(io.Discard)
	os.Exit(m.Run())
}
