package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/dataprep"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --input    : Path to a Personality-format CSV (id, features, optional target).
//              When empty, a synthetic file is generated instead.
// --mode     : Output mode: "cli" (preview in console) or "csv" (save processed file)
// --output   : Path to save processed CSV (if mode=csv). Default = ./processed_<input>
// --preview  : Number of rows to preview in console
// --engineer : Add the derived personality features after imputation
//
// Example:
//   go run main.go --input train.csv --mode csv --engineer
//
// ---------------------------------------------------------------------
//

// previewFrame prints the first n rows of f with its column headers.
func previewFrame(f *data.Frame, n int) error {
	names := f.Names()
	cols := make([][]float64, len(names))
	for j, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[j] = c
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	header := table.Row{f.IDName}
	for _, name := range names {
		header = append(header, name)
	}
	tw.AppendHeader(header)
	for i := 0; i < min(n, f.Len()); i++ {
		row := table.Row{f.IDs[i]}
		for j := range names {
			row = append(row, strconv.FormatFloat(cols[j][i], 'f', 3, 64))
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func main() {
	// ---- CLI Flags ----
	inputPath := flag.String("input", "", "Path to input CSV file (empty = synthetic)")
	mode := flag.String("mode", "cli", "Output mode: cli or csv")
	outputPath := flag.String("output", "", "Path to save processed CSV (if mode=csv)")
	previewRows := flag.Int("preview", 5, "Number of rows to preview in console")
	engineer := flag.Bool("engineer", false, "Add derived features")
	flag.Parse()

	schema := data.PersonalitySchema

	// ---- Load raw CSV ----
	var raw *data.Frame
	if *inputPath == "" {
		raw = data.Synthetic(200, 0, 0.05, 1).Train
		*inputPath = "synthetic.csv"
		fmt.Println("No --input given, generated 200 synthetic rows")
	} else {
		f, err := data.ReadFrame(*inputPath, schema.ID)
		if err != nil {
			log.Fatalf("Error reading CSV file: %v", err)
		}
		raw = f
	}
	fmt.Printf("Loaded raw data: %d rows, %d columns\n", raw.Len(), len(raw.Names()))

	// ---- Encoding and Missing Values ----
	prep, err := dataprep.Prepare(raw, raw, schema)
	if err != nil {
		log.Fatalf("Error preparing data: %v", err)
	}
	missing := raw.MissingCounts()
	for _, c := range schema.Features() {
		if n := missing[c]; n > 0 {
			fmt.Printf("  %-26s %4d imputed (median %.3f)\n", c, n, prep.Imputer.Medians[c])
		}
	}
	out := prep.Train

	// ---- Feature Engineering ----
	if *engineer {
		if out, err = dataprep.Engineer(out); err != nil {
			log.Fatalf("Error engineering features: %v", err)
		}
	}
	fmt.Printf("After preprocessing: %d samples, %d features\n", out.Len(), len(out.Names()))

	// ---- Target ----
	if raw.Has(schema.Target) {
		labels, err := raw.Text(schema.Target)
		if err != nil {
			log.Fatalf("Error reading target: %v", err)
		}
		if err := out.SetText(schema.Target, labels); err != nil {
			log.Fatalf("Error attaching target: %v", err)
		}
	}

	// ---- Output ----
	if *mode == "csv" {
		if *outputPath == "" {
			*outputPath = filepath.Join(".", "processed_"+filepath.Base(*inputPath))
		}
		if err := data.WriteCSV(*outputPath, out); err != nil {
			log.Fatalf("Error writing output file: %v", err)
		}
		fmt.Println("Processed data saved to:", *outputPath)
		return
	}

	fmt.Println("\nPreview of processed data:")
	preview := out
	if out.Has(schema.Target) {
		preview = out.Drop(schema.Target)
	}
	if err := previewFrame(preview, *previewRows); err != nil {
		log.Fatal(err)
	}
}
