package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantLevel log.Level
		wantJSON  bool
		wantErr   bool
	}{
		{name: "defaults", opts: Options{}, wantLevel: log.WarnLevel},
		{name: "debug text", opts: Options{Level: "debug", Format: "text"}, wantLevel: log.DebugLevel},
		{name: "json", opts: Options{Level: "info", Format: "JSON"}, wantLevel: log.InfoLevel, wantJSON: true},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, closer, err := New(tt.opts)
			require.NotNil(t, closer)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer closer.Close()

			assert.Equal(t, tt.wantLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*log.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pinboard.log")

	logger, closer, err := New(Options{Level: "info", Format: FormatJSON, File: path})
	require.NoError(t, err)
	logger.WithField("op", "InsertCard").Info("remote call ok")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"InsertCard"`)
	assert.Contains(t, string(data), `"msg":"remote call ok"`)
}
