package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	judokit "github.com/hugochinchilla79/judokit_sdk"
)

func TestExecute_Local(t *testing.T) {
	t.Setenv("JUDO_LOG_LEVEL", "ERROR")
	env := filepath.Join(t.TempDir(), "missing.env")
	require.NoError(t, execute([]string{"-local", "-env", env, "-amount", "8.00GBP"}))
}

func TestExecute_LocalFailureReturnsError(t *testing.T) {
	t.Setenv("JUDO_LOG_LEVEL", "ERROR")
	env := filepath.Join(t.TempDir(), "missing.env")

	err := execute([]string{"-local", "-env", env, "-amount", "-8GBP"})
	require.True(t, judokit.HasCode(err, judokit.CodeInvalidAmount))

	err = execute([]string{"-local", "-env", env, "-judo-id", "100915"})
	require.True(t, judokit.HasCode(err, judokit.CodeLuhnValidation))
}

func TestExecute_BadFlag(t *testing.T) {
	require.Error(t, execute([]string{"-nope"}))
}
