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
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airscript-lang/airscript/pkg/diag"
	"github.com/airscript-lang/airscript/pkg/lower"
	"github.com/airscript-lang/airscript/pkg/sexp"
)

// targetExtensions maps a --target name to the canonical extension the CLI
// resolves a derived output path to.  Neither target has a shipped emitter:
// both rust and asm code generation are external collaborators (spec §1);
// this repository's job ends at producing the IR.
var targetExtensions = map[string]string{
	"rust": ".rs",
	"asm":  ".masm",
}

var transpileCmd = &cobra.Command{
	Use:   "transpile <input-path>",
	Short: "Lower an AirScript module into a validated constraint IR.",
	Long: `Lowers an AirScript module (given as the interim JSON-AST format) through the
symbol table and expression compiler into a degree-annotated constraint graph, reporting
any diagnostics raised along the way.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		target := getString(cmd, "target")
		if _, ok := targetExtensions[target]; !ok {
			fmt.Printf("unknown target %q: expected \"rust\" or \"asm\"\n", target)
			os.Exit(2)
		}

		inputPath := args[0]

		log.Debugf("reading module: %s", inputPath)

		module, source := readModuleFile(inputPath)
		sourceFile := sexp.NewSourceFile(inputPath, []byte(source))

		result, diags := lower.Compile(module)
		if len(diags) > 0 {
			diag.Render(os.Stderr, diags, sourceFile)
			os.Exit(1)
		}

		log.Debugf("module %q: %d main root(s), %d aux root(s)", module.Name, len(result.MainRoots), len(result.AuxRoots))

		if getFlag(cmd, "dump-ir") {
			fmt.Println(result.Lisp().String())
			return
		}

		output := getString(cmd, "output")
		if output == "" {
			output = strings.TrimSuffix(inputPath, path.Ext(inputPath)) + targetExtensions[target]
		}

		unsupported := diag.New(diag.UnsupportedFeature, module.Span(),
			"no %q emitter is shipped by this repository; the IR was built successfully but cannot be written to %s",
			target, output)

		diag.Render(os.Stderr, []*diag.Diagnostic{unsupported}, sourceFile)
		os.Exit(1)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().StringP("output", "o", "", "specify output file (defaults to the input path with the target's extension)")
	transpileCmd.Flags().String("target", "rust", "emission target: \"rust\" or \"asm\"")
	transpileCmd.Flags().Bool("dump-ir", false, "print the assembled IR's lisp form to stdout instead of emitting")
}
