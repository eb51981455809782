package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/YagorVitor/CodeReview/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Out is where every print function writes. Tests swap it for a buffer.
var Out io.Writer = color.Output

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// IsJSON reports whether machine-readable output was requested.
func IsJSON() bool {
	return GetOutputFormat() == FormatJSON
}

// Print outputs data as JSON regardless of format. Text renderers call it
// for --output json and do their own formatting otherwise.
func Print(data interface{}) error {
	return printJSON(data)
}

// PrintList outputs rows as a table in table format and as JSON items in
// json format. Text format prints the rows tab-aligned without headers.
func PrintList(items interface{}, columns []string, rows [][]string) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return printJSON(items)
	case FormatTable:
		return printTable(columns, rows)
	default:
		return printTable(nil, rows)
	}
}

// PrintRecord outputs a single record with its keys sorted.
func PrintRecord(title string, record map[string]interface{}) error {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch GetOutputFormat() {
	case FormatJSON:
		return printJSON(record)
	case FormatTable:
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		return printTable([]string{"Field", "Value"}, rows)
	default:
		if title != "" {
			fmt.Fprintf(Out, "%s:\n", title)
		}
		bold := color.New(color.Bold)
		for _, k := range keys {
			bold.Fprint(Out, k+": ")
			fmt.Fprintf(Out, "%v\n", record[k])
		}
		return nil
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Out, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Out, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Out, "Warning: "+msg+"\n", args...)
}

func printJSON(data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Out, string(b))
	return err
}

func printTable(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	if len(headers) > 0 {
		fmt.Fprintln(w)
	}

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
