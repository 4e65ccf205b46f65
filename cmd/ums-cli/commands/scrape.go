package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"umsassist-backend/internal/components/configutil"
	"umsassist-backend/internal/components/serviceutil"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/profile"
	"umsassist-backend/internal/scrapers/ums"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeRegNo    *string
	scrapePassword *string
	scrapeBaseUrl  *string
	scrapeJson     *bool
)

func init() {
	scrapeRegNo = scrapeCmd.Flags().String("reg", "", "The registration number to log in with.")
	scrapePassword = scrapeCmd.Flags().String("password", "", "The portal password, defaults to $UMS_PASSWORD.")
	scrapeBaseUrl = scrapeCmd.Flags().String("base-url", ums.DefaultBaseUrl, "The portal to scrape.")
	scrapeJson = scrapeCmd.Flags().Bool("json", false, "Print the profile as json instead of tables.")
	scrapeCmd.MarkFlagRequired("reg")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape --reg <regNo> [--password <password>] [--json]",
	Short: "Logs into the portal once and prints everything it could scrape.",
	Run: func(cmd *cobra.Command, args []string) {
		password := *scrapePassword
		if password == "" {
			configutil.OverrideString(&password, "UMS_PASSWORD")
		}
		if password == "" {
			fmt.Fprintln(os.Stderr, "You should specify a password with --password or the environment variable UMS_PASSWORD.")
			os.Exit(1)
		}

		opts := ums.DefaultOptions()
		opts.BaseUrl = *scrapeBaseUrl
		scraper := ums.NewScraper(opts, telemetry.SlogAPI{})

		data, err := scraper.Scrape(cmd.Context(), *scrapeRegNo, password)
		if err != nil {
			serviceutil.Fatal("failed to scrape portal", err)
		}
		display := profile.NewDisplay(data)

		if *scrapeJson {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			err = encoder.Encode(display)
			if err != nil {
				serviceutil.Fatal("failed to encode profile", err)
			}
			return
		}
		renderDisplay(os.Stdout, display)
	},
}

func newTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func renderDisplay(out io.Writer, display profile.Display) {
	summary := newTable(out, "Student")
	summary.AppendRows([]table.Row{
		{"Name", display.StudentName},
		{"Registration number", display.RegNo},
		{"Program", display.Program},
		{"Section", display.Section},
		{"CGPA", display.Cgpa},
		{"Total credits", display.TotalCredits},
		{"Aggregate attendance", display.AggAttendance},
	})
	summary.Render()

	terms := newTable(out, "Term GPAs")
	terms.AppendHeader(table.Row{"Term", "TGPA"})
	for _, term := range display.TermData {
		terms.AppendRow(table.Row{term.TermId, term.Tgpa})
	}
	terms.Render()

	grades := newTable(out, "Grades")
	grades.AppendHeader(table.Row{"Course", "Credits", "Grade"})
	for _, g := range display.Grades {
		grades.AppendRow(table.Row{g.Course, g.Credits, g.Grade})
	}
	grades.Render()

	attendance := newTable(out, "Attendance")
	attendance.AppendHeader(table.Row{"Course", "%", "Attended", "Delivered", "Duty leaves", "Last attended"})
	for _, a := range display.Attendance {
		attendance.AppendRow(table.Row{a.Course, a.Percentage, a.Attended, a.Delivered, a.DutyLeaves, a.LastAttended})
	}
	attendance.Render()

	assignments := newTable(out, "Assignments")
	assignments.AppendHeader(table.Row{"Course", "Type", "Obtained", "Total"})
	for _, a := range display.Assignments {
		assignments.AppendRow(table.Row{a.CourseCode, a.Type, a.Obtained, a.Total})
	}
	assignments.Render()
}
