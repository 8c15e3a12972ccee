// Package dataset reads the raw GBD mental-disorders extract. The source is a
// wide CSV with a header row; only the columns named in the schema mapping are
// consumed, identifier columns are ignored.
package dataset

import "sort"

// SchemaVersion identifies the source-column contract. It is logged with every
// run so artifacts can be traced back to the mapping that produced them.
const SchemaVersion = "gbd-extract/v1"

// Row is one raw observation. All fields are kept as strings; typing happens
// in the clean package so unparseable cells can be coerced instead of aborting
// a batch.
type Row struct {
	Measure  string `csv:"measure_name"`
	Country  string `csv:"location_name"`
	Sex      string `csv:"sex_name"`
	AgeGroup string `csv:"age_name"`
	Disorder string `csv:"cause_name"`
	Year     string `csv:"year"`
	Metric   string `csv:"metric_name"`
	Value    string `csv:"val"`
	Upper    string `csv:"upper"`
	Lower    string `csv:"lower"`
}

// columnRenames maps source column names to their cleaned names. The mapping
// is static and one-to-one; Open fails fast when a source column is absent
// from the header.
var columnRenames = map[string]string{
	"measure_name":  "measure",
	"location_name": "country",
	"sex_name":      "sex",
	"age_name":      "age_group",
	"cause_name":    "disorder",
	"year":          "year",
	"metric_name":   "metric",
	"val":           "value",
	"upper":         "upper_bound",
	"lower":         "lower_bound",
}

// SourceColumns returns the source column names required in the header,
// sorted for stable error messages.
func SourceColumns() []string {
	cols := make([]string, 0, len(columnRenames))
	for c := range columnRenames {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// CleanName returns the cleaned name for a source column.
func CleanName(source string) (string, bool) {
	name, ok := columnRenames[source]
	return name, ok
}
