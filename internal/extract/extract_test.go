package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildTestDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	content := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := doc.Write([]byte(content)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}

	rels, err := zw.Create("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("create rels: %v", err)
	}
	relContent := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	if _, err := rels.Write([]byte(relContent)); err != nil {
		t.Fatalf("write rels: %v", err)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildTestDocx(t, "Jordan Smith")

	got, err := ExtractTextFromBytes(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(got, "Jordan Smith") {
		t.Fatalf("expected body text, got %q", got)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildTestDocx(t, "hello")

	if _, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppendLinkLines(t *testing.T) {
	got := appendLinkLines("resume body\n", []string{"https://github.com/jordan", "https://linkedin.com/in/jordan"})
	if !strings.Contains(got, "LINK: https://github.com/jordan") {
		t.Fatalf("missing github link line: %q", got)
	}
	if !strings.Contains(got, "LINK: https://linkedin.com/in/jordan") {
		t.Fatalf("missing linkedin link line: %q", got)
	}
	if appendLinkLines("body", nil) != "body" {
		t.Fatal("no links should leave text unchanged")
	}
}

func TestStripDocxXMLKeepsParagraphBreaks(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>line one</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>line two</w:t></w:r></w:p></w:body></w:document>`
	got := stripDocxXML(raw)
	if got != "line one\nline two" {
		t.Fatalf("unexpected strip result: %q", got)
	}
}
