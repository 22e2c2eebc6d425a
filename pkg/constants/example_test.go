package constants_test

import (
	"fmt"
	"strings"

	"github.com/agentstation/alekit/pkg/constants"
)

// Example demonstrates building the envelope of an ALE file from the markers
func Example() {
	lines := []string{
		constants.HeadingMarker,
		"FPS" + constants.FieldDelimiter + "25",
		"",
		constants.ColumnMarker,
		strings.Join(constants.DefaultKeyColumns, constants.FieldDelimiter),
		"",
		constants.DataMarker,
	}
	fmt.Println(len(lines), lines[3], lines[6])
	// Output:
	// 7 Column Data
}

// Example_batchName demonstrates the name of a batch-processed file
func Example_batchName() {
	fmt.Println("A001" + constants.DefaultBatchSuffix + ".ale")
	// Output:
	// A001 - batch processed.ale
}
