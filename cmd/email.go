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
	"html"
	"net/smtp"
	"os"
	"time"

	"github.com/ademuri/spotify-tools/internal/analysis"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendEmailConfig struct {
	DbPath       string
	From         string
	To           string
	Number       int
	Shrinkage    float64
	DryRun       bool
	SMTPUsername string
	SMTPPassword string
	Start        time.Time
	End          time.Time
}

var (
	emailNumber    int
	emailShrinkage float64
)

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Emails an enjoyment report",
	Long: `Emails the most and least enjoyed tracks to the given address.
Optional date arguments narrow the period (e.g. '2023' or '2023-01 2023-06').
If no dates are provided, the whole imported history is used.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			DbPath:       viper.GetString("database"),
			From:         viper.GetString("from"),
			To:           args[0],
			Number:       emailNumber,
			Shrinkage:    emailShrinkage,
			DryRun:       viper.GetBool("dryRun"),
			SMTPUsername: viper.GetString("smtp_username"),
			SMTPPassword: viper.GetString("smtp_password"),
		}
		err := sendEmail(config, args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().IntVar(&emailNumber, "number", 10, "Number of tracks per section")
	emailCmd.Flags().Float64Var(&emailShrinkage, "shrinkage", analysis.DefaultShrinkage,
		"How strongly rarely-played tracks are pulled toward the average")
}

func sendEmail(config SendEmailConfig, dateArgs []string) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	config.Start, config.End, err = resolveDateRange(db, dateArgs)
	if err != nil {
		return err
	}

	scored, summaries, err := runPipeline(db, config.Start, config.End, analysis.DefaultWeights(), config.Shrinkage)
	if err != nil {
		return err
	}
	report := analysis.BuildReport(scored, summaries, config.Shrinkage, config.Number, time.Now())

	subject, out := generateEmailContent(config, report)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SMTPUsername == "" || config.SMTPPassword == "" {
		return fmt.Errorf("smtp_username and smtp_password must be set in order to send emails")
	}

	msg := "From: spotify-tools <" + config.From + ">\r\n" +
		"To: " + config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		out

	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, "smtp.gmail.com")
	err = smtp.SendMail("smtp.gmail.com:587", auth, config.From, []string{config.To}, []byte(msg))
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	return nil
}

func generateEmailContent(config SendEmailConfig, report *analysis.Report) (subject string, body string) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	period := fmt.Sprintf("%s to %s", config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))
	out += fmt.Sprintf("<h2>Most enjoyed tracks, %s:</h2>\n", period)
	out += rankTable(report.TopTracks)
	out += fmt.Sprintf("<h2>Least enjoyed tracks, %s:</h2>\n", period)
	out += rankTable(report.BottomTracks)
	out += fmt.Sprintf("<div>Based on %d streams of %d tracks.</div>\n",
		report.Metadata.TotalStreams, report.Metadata.TotalTracks)
	out += `
  </body>
</html>
`

	subject = fmt.Sprintf("Enjoyment report %s", period)
	return subject, out
}

func rankTable(ranks []analysis.TrackRank) string {
	if len(ranks) == 0 {
		return "<div>No streams found.</div>\n"
	}

	out := `
<table>
	<thead>
		<tr>
<th>Rank</th><th>Track</th><th>Artist</th><th>Plays</th><th>Score</th>
		</tr>
	</thead>
	<tbody>
`
	for _, rank := range ranks {
		out += fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%s</td><td>%d</td><td>%.3f</td></tr>\n",
			rank.Rank, html.EscapeString(rank.Track), html.EscapeString(rank.Artist),
			rank.PlayCount, rank.AdjustedScore)
	}
	out += `
	</tbody>
</table>
`
	return out
}
