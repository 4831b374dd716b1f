package main

import (
	"testing"

	"github.com/amonks/shiftbook/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestTemplateScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/template",
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
	})
}
