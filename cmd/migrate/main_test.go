package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail_TerminaConCodigoDistintoDeCero(t *testing.T) {
	if os.Getenv("MIGRATE_TEST_FAIL_EXIT") == "1" {
		fail("falla forzada %d", 42)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFail_TerminaConCodigoDistintoDeCero")
	cmd.Env = append(os.Environ(), "MIGRATE_TEST_FAIL_EXIT=1")
	err := cmd.Run()
	require.Error(t, err)
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok)
	assert.NotZero(t, exitErr.ExitCode())
}
