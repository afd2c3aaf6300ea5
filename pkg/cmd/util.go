// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/airscript-lang/airscript/pkg/ast"
	"github.com/airscript-lang/airscript/pkg/astjson"
)

// getFlag retrieves an expected boolean flag, or exits with a usage error if
// none is registered under that name.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// getString retrieves an expected string flag, or exits with a usage error
// if none is registered under that name.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readModuleFile reads and decodes an input module, dispatching on the
// filename's extension.  The real AirScript grammar is an external
// collaborator (spec §1); for now the only format accepted is the interim
// JSON envelope produced by astjson, which carries both the AST and the
// original source text its spans index into.
func readModuleFile(filename string) (*ast.Module, string) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	switch path.Ext(filename) {
	case ".json":
		module, source, err := astjson.Decode(bytes)
		if err != nil {
			fmt.Printf("%s: %s\n", filename, err.Error())
			os.Exit(2)
		}

		return module, source
	default:
		fmt.Printf("unknown module file format: %s\n", filename)
		os.Exit(2)

		return nil, ""
	}
}
