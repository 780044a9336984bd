package md2html_test

import (
	"context"
	"fmt"
	"log"

	md2html "github.com/alnah/go-md2html"
)

func ExampleConverter_Render() {
	conv, err := md2html.NewConverter()
	if err != nil {
		log.Fatal(err)
	}

	markdown := "---\ntitle: Release notes\n---\n# Changes\n\n```mermaid\ngraph LR; a-->b\n```\n"
	doc, err := conv.Render(context.Background(), markdown, ".", "fallback", md2html.DefaultOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(doc.Title)
	fmt.Println(doc.HasDiagram)
	fmt.Println(len(doc.Headings))
	// Output:
	// Release notes
	// true
	// 1
}

func ExampleSummarize() {
	stats := md2html.Summarize([]md2html.Result{
		{Success: true, Size: 1200, Images: 2},
		{Success: false},
	})
	fmt.Printf("%d/%d ok, %.0f%%, %d images\n", stats.Successful, stats.Total, stats.SuccessRate(), stats.TotalImages)
	// Output:
	// 1/2 ok, 50%, 2 images
}
