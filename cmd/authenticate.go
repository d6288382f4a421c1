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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ademuri/spotify-tools/internal/spotify"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var authRedirectURI string
var authEmail string

var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Grants this tool access to your Spotify library",
	Long: `Prints (or emails) an authorization URL. Visit it, approve access, then
paste the code from the redirect URL back here. The resulting refresh token is
stored in the database.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := authenticate(viper.GetString("database"), viper.GetString("from"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(authenticateCmd)

	authenticateCmd.Flags().StringVar(
		&authRedirectURI, "redirect_uri", "http://localhost:8080/callback",
		"Redirect URI registered with the Spotify app")
	authenticateCmd.Flags().StringVar(
		&authEmail, "email", "", "Email the authorization link instead of printing it")
}

func authenticate(dbPath string, fromAddress string) error {
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	existing, err := db.GetRefreshToken()
	if err != nil {
		return fmt.Errorf("checking existing token: %w", err)
	}
	if existing != "" {
		fmt.Println("Already authenticated, replacing stored token")
	}

	client := spotify.NewClient(viper.GetString("client_id"), viper.GetString("client_secret"))
	authURL := client.AuthCodeURL(authRedirectURI)

	if authEmail != "" {
		from := mail.NewEmail("spotify-tools", fromAddress)
		subject := "Authenticate spotify-tools"
		to := mail.NewEmail(authEmail, authEmail)
		bodyText := "Click here to authenticate: " + authURL
		message := mail.NewSingleEmail(from, subject, to, bodyText, bodyText)
		sendClient := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
		_, err = sendClient.Send(message)
		if err != nil {
			return fmt.Errorf("sending auth email: %w", err)
		}
		fmt.Println("Sent authentication email")
	} else {
		fmt.Printf("Visit this URL to authorize:\n\n%s\n\n", authURL)
	}

	fmt.Print("Paste the code from the redirect URL: ")
	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("No code provided")
	}

	refreshToken, err := client.ExchangeCode(context.Background(), code, authRedirectURI)
	if err != nil {
		return fmt.Errorf("exchanging code: %w", err)
	}
	if refreshToken == "" {
		return fmt.Errorf("Spotify did not return a refresh token")
	}

	if err := db.SetRefreshToken(refreshToken); err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}

	fmt.Println("Successfully authenticated")
	return nil
}
