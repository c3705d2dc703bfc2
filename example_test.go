package docxrec_test

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/tsawler/docxrec"
	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/model"
)

// These examples verify the README code samples compile correctly.
// Only the ones with an Output comment run.

func Example_extractRecords() {
	records, warnings, err := docxrec.Open("orders.docx").Records()
	if errors.Is(err, docxrec.ErrUnparseable) {
		log.Fatal("not a DOCX or ODT document: ", err)
	}
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range records {
		fmt.Println(r.Identifier, r.FirstCellValue, r.SecondCellValue)
	}
	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_writeCSV() {
	records, _, err := docxrec.Open("orders.docx").Records()
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create("converted_data.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, records, export.DefaultColumns()); err != nil {
		log.Fatal(err)
	}
}

func ExampleFromDocument() {
	doc := model.NewDocument()
	doc.AddBlock("Invoice 54321")
	doc.AddBlock("Notes: see below")
	doc.AddTable(model.NewTable([]string{"Alpha"}, []string{"Beta"}))

	md := docxrec.MustRecords(docxrec.FromDocument(doc).
		Labels(export.Columns{Identifier: "ID", First: "Name", Second: "City"}).
		Markdown())
	fmt.Print(md)
	// Output:
	// | ID | Name | City |
	// | --- | --- | --- |
	// | 54321 | Alpha | Beta |
}
