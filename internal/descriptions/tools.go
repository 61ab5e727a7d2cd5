package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and workflows

const (
	RDONewDocumentDescription = `Create a new RDO (Relatório Diário de Obras) report document.

**When to use:** Starting the daily reports of a new period, before importing attendance or rendering.

**Why it's useful:** Builds day 1 from the roster template with the contract header filled in; with fill_month the report gets one day per calendar day of the first date's month.

**Examples:**
• New monthly report: "Create marco.yaml starting 2024-03-01 with RDO number 1-A for the whole month"
• Continue numbering: "Create abril.yaml starting 2024-04-01 with first number 32-A"

**Common workflows:**
1. Monthly cycle: rdo_new_document → rdo_import_attendance → rdo_copy_previous_day → rdo_render_pdf
2. Re-start: rdo_new_document with overwrite → rdo_adjust_month

**Best practices:** Dates are YYYY-MM-DD, contract start and deadline are DD/MM/YYYY. Existing files are kept unless overwrite is set.`

	RDOImportAttendanceDescription = `Apply an attendance (efetivo) file to the roster of every matching day.

**When to use:** After receiving the headcount export (CSV, XLSX or XLS) listing one worker per row with the date and job title.

**Why it's useful:** Job titles are normalized (accents, abbreviations such as "ENC." or "AUX.", stop words) and matched to the roster; every day present in the file gets its roster rebuilt from the counts.

**Examples:**
• Monthly import: "Import efetivo_marco.csv into marco.yaml"
• Keep the original: "Import efetivo.xlsx into marco.yaml and save as marco_efetivo.yaml"

**Common workflows:**
1. Import → review unmatched roles and dates not found → fix the roster template or file → import again
2. Import → rdo_copy_previous_day for Sundays → rdo_render_pdf

**Best practices:** The header must contain "Data" and "Função" or "Cargo". Dates must be DD/MM/YYYY. Unmatched job titles are reported, never added to the roster.`

	RDOClearAttendanceDescription = `Empty every roster quantity on every day of a report.

**When to use:** Before re-importing attendance from scratch, or to hand out a blank form.

**Why it's useful:** Resets all headcounts and totals in one step; running it again reports zero changes.

**Examples:**
• "Clear the attendance of marco.yaml"

**Best practices:** Clearing is remembered, so the missing-attendance alert stays silent until the next import.`

	RDOCopyPreviousDayDescription = `Copy the Saturday roster onto the following Sunday.

**When to use:** Weekend work where Sunday repeats the Saturday crew.

**Why it's useful:** Copies every quantity by position from the day dated one day earlier; partial copies caused by roster size differences are flagged.

**Examples:**
• One Sunday: "Copy the roster onto 2024-03-10 in marco.yaml"
• Whole month: "Copy the previous day onto all Sundays of marco.yaml"

**Best practices:** Only Sundays are valid targets and the Saturday must be part of the same report.`

	RDOAdjustMonthDescription = `Grow or shrink a report to one day per calendar day of a month.

**When to use:** After creating a one-day report, or when moving a report to another month.

**Why it's useful:** Day 1 is anchored on the given date; later days get consecutive dates and RDO numbers with fresh rosters, extra days are removed.

**Examples:**
• "Adjust marco.yaml to the days of March 2024 starting 2024-03-01"

**Best practices:** Without a date the first day's date is used. A report never drops below one day.`

	RDORenderPDFDescription = `Render a report to the printable three-page-per-day RDO PDF.

**When to use:** Producing the signed daily report for the client.

**Why it's useful:** Lays out header, contract data, weather, labor columns, activities, observations, photos and signatures on A4 exactly like the paper form. Content larger than a section is truncated and reported.

**Examples:**
• "Render marco.yaml" → RDO_1_2024-03-01.pdf next to the document
• "Render marco.yaml to entregas/marco.pdf"

**Common workflows:**
1. rdo_render_pdf → rdo_inspect_pdf to confirm page count and text
2. Review problems (missing images, truncated sections) → fix document → render again

**Best practices:** Image paths inside the document are relative to the work directory. Missing images print a marker instead of failing.`

	RDOInspectPDFDescription = `Check a rendered RDO PDF and read back its text.

**When to use:** Verifying a PDF produced by rdo_render_pdf before sending it.

**Why it's useful:** Validates the file, counts pages and days (three pages per day) and extracts per-page text.

**Examples:**
• "Inspect RDO_12_2024-03-09.pdf with text"

**Best practices:** complete=false means the page count is not a multiple of three.`

	RDOExportRosterDescription = `Export the headcount of every day to an Excel workbook.

**When to use:** Sharing the monthly labor summary or checking an import in a spreadsheet.

**Why it's useful:** One row per roster line, one column per day and a total per category and per line.

**Examples:**
• "Export the roster of marco.yaml" → Efetivo_2024-03-01.xlsx

**Best practices:** Empty quantities stay blank; explicit zeros are written as 0.`

	RDOServerInfoDescription = `Describe the server and list the files available in the work directory.

**When to use:** First call of a session, to discover documents, attendance files and rendered reports.

**Why it's useful:** Shows the work directory, the size limit, the expected attendance format and up to 100 files of each kind.

**Best practices:** Every path given to the other tools must be inside the work directory.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"rdo_new_document":      RDONewDocumentDescription,
	"rdo_import_attendance": RDOImportAttendanceDescription,
	"rdo_clear_attendance":  RDOClearAttendanceDescription,
	"rdo_copy_previous_day": RDOCopyPreviousDayDescription,
	"rdo_adjust_month":      RDOAdjustMonthDescription,
	"rdo_render_pdf":        RDORenderPDFDescription,
	"rdo_inspect_pdf":       RDOInspectPDFDescription,
	"rdo_export_roster":     RDOExportRosterDescription,
	"rdo_server_info":       RDOServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names in alphabetical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
