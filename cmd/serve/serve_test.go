// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		listen  string
		rules   string
		wantErr string
	}{
		{listen: ":8080"},
		{listen: "127.0.0.1:9090"},
		{listen: "8080", wantErr: `listen address must be host:port, got "8080"`},
		{listen: ":8080", rules: "missing.yaml", wantErr: "rules file not found: missing.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.listen+tt.rules, func(t *testing.T) {
			flagListen, flagRules = tt.listen, tt.rules
			t.Cleanup(func() { flagListen, flagRules = ":8080", "" })
			cmd := &cobra.Command{Use: "serve"}
			cmd.SetErr(&bytes.Buffer{})

			err := validateFlags(cmd, nil)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
