package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-rdo-report/internal/rdo"
)

func (a *app) initCmd() *cobra.Command {
	var req rdo.CreateDocumentRequest
	cmd := &cobra.Command{
		Use:   "init <document>",
		Short: "Create a new report document from the roster template",
		Example: `  rdo init marco.yaml --date 2024-03-01 --number 1-A --fill-month
  rdo init obra.yaml --date 2024-03-09 --contractor "Construtora Exemplo" --contract 123/2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Output = args[0]
			res, err := a.service.CreateDocument(req)
			if err != nil {
				return err
			}
			return a.print(cmd, res, fmt.Sprintf("Created %s with %d day(s)", res.Document, res.Days))
		},
	}
	cmd.Flags().StringVar(&req.FirstDate, "date", "", "Date of the first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.FirstNumber, "number", "", "RDO number of the first day (default 1-A)")
	cmd.Flags().StringVar(&req.Contractor, "contractor", "", "Contractor name")
	cmd.Flags().StringVar(&req.ContractNumber, "contract", "", "Contract number")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Contract start date (DD/MM/YYYY)")
	cmd.Flags().StringVar(&req.Deadline, "deadline", "", "Contract deadline (DD/MM/YYYY)")
	cmd.Flags().BoolVar(&req.FillMonth, "fill-month", false, "Create one day per calendar day of the month")
	cmd.Flags().BoolVar(&req.Overwrite, "overwrite", false, "Replace an existing document")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <document> <attendance-file>",
		Short: "Apply an attendance file (CSV, XLSX or XLS) to the report rosters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.ImportAttendance(cmd.Context(), rdo.ImportAttendanceRequest{
				Document: args[0],
				Source:   args[1],
				Output:   output,
			})
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(res.Status.String())
			fmt.Fprintf(&b, "\n\n%d record(s), %d assignment(s), %d day(s) updated",
				res.Reconciliation.Records, res.Reconciliation.TotalAssignments, res.Reconciliation.DaysUpdated)
			for _, w := range res.Skipped {
				fmt.Fprintf(&b, "\nskipped line %d: %s", w.Line, w.Message)
			}
			if len(res.MissingDays) > 0 {
				fmt.Fprintf(&b, "\nDays without attendance: %s", strings.Join(res.MissingDays, ", "))
			}
			if err := a.print(cmd, res, b.String()); err != nil {
				return err
			}
			if res.Status.IsError() {
				return errors.New("attendance import failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the updated document here instead of in place")
	return cmd
}

func (a *app) clearCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "clear <document>",
		Short: "Empty every roster quantity of the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.ClearAttendance(rdo.ClearAttendanceRequest{Document: args[0], Output: output})
			if err != nil {
				return err
			}
			return a.print(cmd, res, fmt.Sprintf("%s (%d field(s))", res.Status.Message, res.Changes))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the updated document here instead of in place")
	return cmd
}

func (a *app) copyWeekendCmd() *cobra.Command {
	var (
		req rdo.CopyPreviousDayRequest
		day int
	)
	cmd := &cobra.Command{
		Use:   "copy-weekend <document>",
		Short: "Copy the Saturday roster onto the following Sunday",
		Example: `  rdo copy-weekend marco.yaml --date 2024-03-10
  rdo copy-weekend marco.yaml --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Document = args[0]
			if cmd.Flags().Changed("day") {
				req.Day = &day
			}
			res, err := a.service.CopyPreviousDay(req)
			if err != nil {
				return err
			}

			lines := make([]string, 0, len(res.Copies)+1)
			for i, c := range res.Copies {
				lines = append(lines, fmt.Sprintf("day %d: %s", c.TargetIndex+1, res.Statuses[i].Message))
			}
			lines = append(lines, fmt.Sprintf("%d of %d copy(ies) applied", res.Applied, len(res.Copies)))
			if err := a.print(cmd, res, strings.Join(lines, "\n")); err != nil {
				return err
			}
			if res.Applied == 0 {
				return errors.New("no roster copied")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Date, "date", "", "Sunday to copy onto (YYYY-MM-DD)")
	cmd.Flags().IntVar(&day, "day", 0, "Zero-based index of the Sunday to copy onto")
	cmd.Flags().BoolVar(&req.AllSundays, "all", false, "Copy onto every Sunday of the report")
	cmd.Flags().StringVarP(&req.Output, "output", "o", "", "Save the updated document here instead of in place")
	cmd.MarkFlagsMutuallyExclusive("date", "day", "all")
	return cmd
}

func (a *app) adjustMonthCmd() *cobra.Command {
	var req rdo.AdjustMonthRequest
	cmd := &cobra.Command{
		Use:   "adjust-month <document>",
		Short: "Resize the report to one day per calendar day of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Document = args[0]
			res, err := a.service.AdjustMonth(req)
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s already has %d day(s)", res.Document, res.Days)
			if res.Changed {
				text = fmt.Sprintf("%s resized from %d to %d day(s)", res.Document, res.Before, res.Days)
			}
			return a.print(cmd, res, text)
		},
	}
	cmd.Flags().StringVar(&req.Date, "date", "", "Date of the first day (YYYY-MM-DD), defaults to the current first day")
	cmd.Flags().StringVarP(&req.Output, "output", "o", "", "Save the updated document here instead of in place")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render the report to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.RenderPDF(cmd.Context(), rdo.RenderRequest{Document: args[0], Output: output})
			if err != nil {
				return err
			}
			lines := []string{fmt.Sprintf("%s: %d page(s) for %d day(s)", res.Path, res.Pages, res.Days)}
			for _, p := range res.Problems {
				lines = append(lines, fmt.Sprintf("warning: day %d: %s", p.DayIndex+1, p.Error()))
			}
			return a.print(cmd, res, strings.Join(lines, "\n"))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file to write (default RDO_<number>_<date>.pdf)")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var withText bool
	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "Validate a rendered report and count its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.InspectPDF(rdo.InspectRequest{Path: args[0], IncludeText: withText})
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s: %d page(s), %d day(s), complete=%t", res.Path, res.Pages, res.Days, res.Complete)
			for i, page := range res.PageTexts {
				text += fmt.Sprintf("\n--- Page %d ---\n%s", i+1, page)
			}
			return a.print(cmd, res, text)
		},
	}
	cmd.Flags().BoolVar(&withText, "text", false, "Print the text of every page")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Export the headcount of every day to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.ExportRoster(cmd.Context(), rdo.ExportRosterRequest{Document: args[0], Output: output})
			if err != nil {
				return err
			}
			return a.print(cmd, res, fmt.Sprintf("%s: %d day(s)", res.Path, res.Days))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Workbook to write (default Efetivo_<date>.xlsx)")
	return cmd
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List the documents, attendance files and reports in the work directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.service.ServerInfo()
			if err != nil {
				return err
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Work directory: %s", res.WorkDirectory)
			for _, group := range []struct {
				title string
				files []string
			}{
				{"Documents", res.Documents},
				{"Attendance files", res.AttendanceFiles},
				{"Reports", res.Reports},
			} {
				fmt.Fprintf(&b, "\n%s (%d)", group.title, len(group.files))
				for _, f := range group.files {
					fmt.Fprintf(&b, "\n  %s", f)
				}
			}
			return a.print(cmd, res, b.String())
		},
	}
}
