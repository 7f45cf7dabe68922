package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewTemplates(t *testing.T) {
	templates, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}
	if templates == nil {
		t.Fatal("NewTemplates() returned nil")
	}
}

func TestTemplatesRender_SearchPage(t *testing.T) {
	templates, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	data := SearchPageData{
		Title:    "Test Title",
		Query:    "at://alice.test",
		Examples: []Link{{Label: "at://bsky.app", Href: browseHref("at://bsky.app")}},
	}

	w := httptest.NewRecorder()
	if err := templates.Render(w, "index.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Test Title") {
		t.Error("Rendered output does not contain title")
	}
	if !strings.Contains(body, `value="at://alice.test"`) {
		t.Error("Rendered output does not pre-fill the query")
	}
	if !strings.Contains(body, "/browse?uri=at%3A%2F%2Fbsky.app") {
		t.Error("Rendered output does not link the example")
	}
	if !strings.Contains(body, `registerProtocolHandler("web+at"`) {
		t.Error("Rendered output does not register the web+at handler")
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestTemplatesRender_EscapesRecordJSON(t *testing.T) {
	templates, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	data := BrowsePageData{
		Title: "record",
		URI:   "at://did:plc:alice/app.bsky.feed.post/1",
		Kind:  "record",
		Record: &RecordData{
			URI:  "at://did:plc:alice/app.bsky.feed.post/1",
			JSON: prettyJSON(json.RawMessage(`{"text":"<script>alert(1)</script>"}`)),
		},
	}

	w := httptest.NewRecorder()
	if err := templates.Render(w, "browse.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("record content was not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped record content missing")
	}
}

func TestTemplatesRenderStatus(t *testing.T) {
	templates, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	w := httptest.NewRecorder()
	err = templates.RenderStatus(w, http.StatusNotFound, "error.html", ErrorPageData{
		Title:   "missing",
		Kind:    "RecordNotFound",
		Message: "no such record",
		Status:  http.StatusNotFound,
	})
	if err != nil {
		t.Fatalf("RenderStatus() error = %v", err)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "RecordNotFound") {
		t.Error("error kind not rendered")
	}
}

func TestTemplatesRender_NonExistentTemplate(t *testing.T) {
	templates, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	w := httptest.NewRecorder()
	if err := templates.Render(w, "nonexistent.html", nil); err == nil {
		t.Error("Render() expected error for non-existent template, got nil")
	}
	if w.Body.Len() != 0 {
		t.Error("nothing should be written for a missing template")
	}
}

func TestPrettyJSON(t *testing.T) {
	if got := prettyJSON(json.RawMessage(`{"a":1}`)); got != "{\n  \"a\": 1\n}" {
		t.Errorf("prettyJSON = %q", got)
	}
	if got := prettyJSON(json.RawMessage(`not json`)); got != "not json" {
		t.Errorf("prettyJSON(invalid) = %q", got)
	}
	if got := prettyJSON(nil); got != "" {
		t.Errorf("prettyJSON(nil) = %q", got)
	}
}
