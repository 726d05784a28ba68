// canary
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/api"
)

// NewCmdSchema creates a new schema command
func NewCmdSchema() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI document of the report api",
		Long:  "Prints the OpenAPI document describing the report api and the json report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSchema(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format, yaml or json")

	return cmd
}

func writeSchema(cmd *cobra.Command, format string) error {
	ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
	doc, err := api.OpenAPI(ctx)
	if err != nil {
		return err
	}
	return encodeSchema(cmd.OutOrStdout(), format, doc)
}

func encodeSchema(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
