package commands

import (
	"os"
	"time"
	devenv "umsassist-backend/dev/env"
	"umsassist-backend/internal/components/chrono"
	"umsassist-backend/internal/components/configutil"
	"umsassist-backend/internal/components/serviceutil"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	inboxRegNo *string
	inboxDb    *string
)

func init() {
	inboxRegNo = inboxCmd.Flags().String("reg", "", "The registration number whose conversations are listed.")
	inboxDb = inboxCmd.Flags().String("db", "<dev_state>/ums.db", "The sqlite database to read, ignored when $UMS_DATABASE_URL is set.")
	inboxCmd.MarkFlagRequired("reg")
	rootCmd.AddCommand(inboxCmd)
}

var inboxCmd = &cobra.Command{
	Use:   "inbox --reg <regNo> [--db <path/to/ums.db>]",
	Short: "Lists the stored conversations of a student.",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := devenv.ResolvePath(*inboxDb)
		if err != nil {
			serviceutil.Fatal("failed to resolve db path", err)
		}
		config := store.Config{File: path}
		configutil.OverrideString(&config.Url, "UMS_DATABASE_URL")
		configutil.OverrideString(&config.AuthToken, "UMS_DATABASE_AUTH_TOKEN")

		database, err := config.OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		clock, err := chrono.NewStandardImpl()
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}
		studentStore := store.NewStore(database, clock, telemetry.SlogAPI{})

		conversations, err := studentStore.GetConversations(cmd.Context(), *inboxRegNo)
		if err != nil {
			serviceutil.Fatal("failed to get conversations", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"With", "Unread", "Latest message", "At"})
		for _, c := range conversations {
			at := time.Unix(c.Timestamp, 0).In(clock.Location()).Format(time.ANSIC)
			t.AppendRow(table.Row{c.OtherUser, c.UnreadCount, c.LatestMessage.Text, at})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
