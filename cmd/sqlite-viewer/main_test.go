package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johan-st/sqlite-viewer/internal/cli"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, ""},
		{"setup failure", errors.New("failed to load config: bad yaml"), "Error: failed to load config: bad yaml\n"},
		{"command already reported", fmt.Errorf("sql: %w", cli.ErrCommandFailed), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
