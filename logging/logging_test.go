// SPDX-License-Identifier: MIT

package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lawt/config"
	"github.com/katalvlaran/lawt/logging"
)

func TestNew(t *testing.T) {
	l, err := logging.New(config.Log{Level: "warn", Format: "json"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = logging.New(config.Log{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Errors(t *testing.T) {
	_, err := logging.New(config.Log{Level: "chatty", Format: "json"})
	require.Error(t, err)
	_, err = logging.New(config.Log{Level: "info", Format: "xml"})
	require.Error(t, err)
}
