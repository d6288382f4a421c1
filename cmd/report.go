/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ademuri/spotify-tools/internal/analysis"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	reportNumber    int
	reportShrinkage float64
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Writes a YAML enjoyment report to stdout",
	Long: `Generates a machine-readable report: most and least enjoyed tracks overall
and per year. With no date arguments, the whole imported history is used.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printReport(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&reportNumber, "number", "n", 10, "Number of tracks per section")
	reportCmd.Flags().Float64Var(&reportShrinkage, "shrinkage", analysis.DefaultShrinkage,
		"How strongly rarely-played tracks are pulled toward the average")
}

func printReport(out io.Writer, dbPath string, args []string) error {
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	start, end, err := resolveDateRange(db, args)
	if err != nil {
		return err
	}

	scored, summaries, err := runPipeline(db, start, end, analysis.DefaultWeights(), reportShrinkage)
	if err != nil {
		return err
	}

	report := analysis.BuildReport(scored, summaries, reportShrinkage, reportNumber, time.Now())

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
