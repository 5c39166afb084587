package report

import (
	"fmt"
	"strings"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(r *Report) {
	fmt.Printf("Region     | Result | Check\n")
	fmt.Printf("______     | ______ | _____\n")
	for _, v := range r.Verdicts {
		result := "PASS"
		if !v.Passed {
			result = "FAIL"
		}
		fmt.Printf("%-10s | %-6s | %s\n", v.Region, result, v.Check)
		if !v.Passed {
			fmt.Printf("           |        |   expected %q, got %q\n", v.Expected, v.Actual)
		}
	}
	fmt.Printf("\n%d checks, %d failed\n", len(r.Verdicts), r.Failures())
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(r *Report) {
	fmt.Printf(`"region","check","result","expected","actual"`)
	fmt.Printf("\n")
	for _, v := range r.Verdicts {
		result := "PASS"
		if !v.Passed {
			result = "FAIL"
		}
		fmt.Printf(`"%s","%s","%s","%s","%s"`,
			csvEscape(v.Region), csvEscape(v.Check), result, csvEscape(v.Expected), csvEscape(v.Actual))
		fmt.Printf("\n")
	}
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
