// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lawt/compute"
)

// errComputeFailed signals a failure envelope that was already printed.
var errComputeFailed = errors.New("computation failed")

func newComputeCmd() *cobra.Command {
	var (
		file   string
		method string
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run one request and print the response envelope",
		Long: `Reads a request from a JSON or YAML file (or stdin when -f is "-" or
omitted) and prints the response envelope as JSON.

Example request.yaml:
  operation: inverse
  matrixA:
    - [2, "1/2"]
    - [0, 1]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if method != "" {
				req.Method = method
			}

			engine, _ := buildEngine(cfg, logger, nil)
			env, _ := engine.Run(cmd.Context(), req)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(env); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			if !env.Success {
				return errComputeFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request file (.json, .yaml, .yml or - for stdin)")
	cmd.Flags().StringVar(&method, "method", "", "override the request method (reference, model)")

	return cmd
}

// readRequest decodes a request from path, or from stdin for "-". YAML is a
// superset of JSON, so anything without a .json suffix goes through yaml.v3.
func readRequest(stdin io.Reader, path string) (compute.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return compute.Request{}, fmt.Errorf("read request: %w", err)
	}

	var req compute.Request
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &req)
	} else {
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return compute.Request{}, fmt.Errorf("%w: %v", compute.ErrMalformedRequest, err)
	}

	return req, nil
}
