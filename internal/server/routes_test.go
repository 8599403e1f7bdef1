package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"go-pdftools/internal/config"
	"go-pdftools/internal/logger"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.WorkDir = t.TempDir()
	// A binary that cannot exist keeps compression on the pdfcpu fallback.
	cfg.Compress.GhostscriptBinary = "gs-not-installed-for-tests"

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	server := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(server.Close)
	return server
}

func fixturePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 18)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(60, 80, fmt.Sprintf("Page %d", i))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	return buf.Bytes()
}

type formFile struct {
	field, name string
	data        []byte
}

func postForm(t *testing.T, url string, files []formFile, fields map[string]string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	writer.Close()

	resp, err := http.Post(url, writer.FormDataContentType(), body)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readPDF(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200 OK, got %d: %s", resp.StatusCode, b)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Expected application/pdf, got %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Expected caching disabled, got %q", cc)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return data
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	n, err := pdfapi.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("Response is not a readable PDF: %v", err)
	}
	return n
}

func expectError(t *testing.T, resp *http.Response, status int) string {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("Expected %d, got %d", status, resp.StatusCode)
	}
	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if result["error"] == "" {
		t.Fatal("Expected error message in response")
	}
	return result["error"]
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", result["status"])
	}
}

func TestWatermarkText(t *testing.T) {
	server := setupTestServer(t)

	resp := postForm(t, server.URL+"/watermark-pdf",
		[]formFile{{"file", "report.pdf", fixturePDF(t, 3)}},
		map[string]string{"watermarkText": "CONFIDENTIAL", "selectedPages": "1,3", "layer": "below"})
	out := readPDF(t, resp)
	if n := pageCount(t, out); n != 3 {
		t.Errorf("Expected 3 pages, got %d", n)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "watermarked_report.pdf") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
}

func TestWatermarkValidation(t *testing.T) {
	server := setupTestServer(t)
	doc := fixturePDF(t, 2)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing text", map[string]string{}},
		{"bad type", map[string]string{"watermarkType": "svg"}},
		{"bad position", map[string]string{"watermarkText": "A", "position": "middle"}},
		{"bad transparency", map[string]string{"watermarkText": "A", "transparency": "2"}},
		{"bad layer", map[string]string{"watermarkText": "A", "layer": "sideways"}},
		{"inverted range", map[string]string{"watermarkText": "A", "selectedPages": "2-1"}},
		{"out of bounds", map[string]string{"watermarkText": "A", "selectedPages": "5"}},
		{"missing image", map[string]string{"watermarkType": "image"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := postForm(t, server.URL+"/watermark-pdf", []formFile{{"file", "doc.pdf", doc}}, tc.fields)
			expectError(t, resp, http.StatusBadRequest)
		})
	}
}

func TestRejectsNonPDF(t *testing.T) {
	server := setupTestServer(t)

	resp := postForm(t, server.URL+"/protect-pdf",
		[]formFile{{"file", "doc.pdf", []byte("hello world")}},
		map[string]string{"password": "x"})
	expectError(t, resp, http.StatusBadRequest)

	resp = postForm(t, server.URL+"/protect-pdf", nil, map[string]string{"password": "x"})
	expectError(t, resp, http.StatusBadRequest)
}

func TestProtectAndUnlock(t *testing.T) {
	server := setupTestServer(t)

	protected := readPDF(t, postForm(t, server.URL+"/protect-pdf",
		[]formFile{{"file", "doc.pdf", fixturePDF(t, 2)}},
		map[string]string{"password": "p"}))

	resp := postForm(t, server.URL+"/unlock-pdf",
		[]formFile{{"file", "doc.pdf", protected}},
		map[string]string{"password": "wrong"})
	if msg := expectError(t, resp, http.StatusBadRequest); msg != "Incorrect password provided" {
		t.Errorf("Unexpected message %q", msg)
	}

	resp = postForm(t, server.URL+"/unlock-pdf",
		[]formFile{{"file", "doc.pdf", protected}},
		map[string]string{"password": "p", "fileName": "mine"})
	out := readPDF(t, resp)
	if n := pageCount(t, out); n != 2 {
		t.Errorf("Expected 2 pages, got %d", n)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "mine.pdf") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
}

func TestProtectRequiresPassword(t *testing.T) {
	server := setupTestServer(t)

	resp := postForm(t, server.URL+"/protect-pdf", []formFile{{"file", "doc.pdf", fixturePDF(t, 1)}}, nil)
	expectError(t, resp, http.StatusBadRequest)
}

func TestUnlockWithDictionary(t *testing.T) {
	server := setupTestServer(t)

	protected := readPDF(t, postForm(t, server.URL+"/protect-pdf",
		[]formFile{{"file", "doc.pdf", fixturePDF(t, 1)}},
		map[string]string{"password": "admin"}))

	resp := postForm(t, server.URL+"/unlock-pdf", []formFile{{"file", "doc.pdf", protected}}, nil)
	out := readPDF(t, resp)
	if n := pageCount(t, out); n != 1 {
		t.Errorf("Expected 1 page, got %d", n)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "unlocked_pdf.pdf") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
}

func TestUnlockEmptyUserPassword(t *testing.T) {
	server := setupTestServer(t)

	var locked bytes.Buffer
	conf := model.NewAESConfiguration("", "ownerpw", 256)
	if err := pdfapi.Encrypt(bytes.NewReader(fixturePDF(t, 2)), &locked, conf); err != nil {
		t.Fatalf("Failed to encrypt fixture: %v", err)
	}

	resp := postForm(t, server.URL+"/unlock-pdf", []formFile{{"file", "doc.pdf", locked.Bytes()}}, nil)
	out := readPDF(t, resp)
	if n := pageCount(t, out); n != 2 {
		t.Errorf("Expected 2 pages, got %d", n)
	}
	ctx, err := pdfapi.ReadContext(bytes.NewReader(out), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("Failed to read unlocked PDF: %v", err)
	}
	if ctx.E != nil {
		t.Error("Expected the unlocked PDF to carry no encryption")
	}
}

func TestUnlockUnencryptedPDF(t *testing.T) {
	server := setupTestServer(t)

	resp := postForm(t, server.URL+"/unlock-pdf", []formFile{{"file", "doc.pdf", fixturePDF(t, 2)}}, nil)
	if n := pageCount(t, readPDF(t, resp)); n != 2 {
		t.Errorf("Expected 2 pages, got %d", n)
	}
}

func TestUnlockDictionaryExhausted(t *testing.T) {
	server := setupTestServer(t)

	protected := readPDF(t, postForm(t, server.URL+"/protect-pdf",
		[]formFile{{"file", "doc.pdf", fixturePDF(t, 1)}},
		map[string]string{"password": "correct horse battery staple"}))

	resp := postForm(t, server.URL+"/unlock-pdf", []formFile{{"file", "doc.pdf", protected}}, nil)
	expectError(t, resp, http.StatusBadRequest)
}

func TestCompressFallback(t *testing.T) {
	server := setupTestServer(t)

	resp := postForm(t, server.URL+"/compress",
		[]formFile{{"file", "big.pdf", fixturePDF(t, 4)}},
		map[string]string{"quality": "medium", "targetSizeMB": "2"})
	out := readPDF(t, resp)
	if n := pageCount(t, out); n != 4 {
		t.Errorf("Expected 4 pages, got %d", n)
	}

	want := map[string]string{
		"X-Compression-Method": "pdfcpu",
		"X-Quality-Used":       "medium",
		"X-Target-Size":        "2.0 MB",
	}
	for k, v := range want {
		if got := resp.Header.Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
	for _, k := range []string{"X-Original-Size", "X-Compressed-Size"} {
		if !strings.HasSuffix(resp.Header.Get(k), " MB") {
			t.Errorf("%s: unexpected value %q", k, resp.Header.Get(k))
		}
	}
	if !strings.HasSuffix(resp.Header.Get("X-Compression-Ratio"), "%") {
		t.Errorf("Unexpected ratio %q", resp.Header.Get("X-Compression-Ratio"))
	}
}

func TestCompressInvalidTarget(t *testing.T) {
	server := setupTestServer(t)
	doc := fixturePDF(t, 1)

	for _, target := range []string{"0", "-1", "abc"} {
		resp := postForm(t, server.URL+"/compress", []formFile{{"file", "doc.pdf", doc}},
			map[string]string{"targetSizeMB": target})
		expectError(t, resp, http.StatusBadRequest)
	}
}

func TestMergeRotateRemoveExtract(t *testing.T) {
	server := setupTestServer(t)

	merged := readPDF(t, postForm(t, server.URL+"/merge-pdf", []formFile{
		{"files", "a.pdf", fixturePDF(t, 2)},
		{"files", "b.pdf", fixturePDF(t, 3)},
	}, nil))
	if n := pageCount(t, merged); n != 5 {
		t.Fatalf("Expected 5 merged pages, got %d", n)
	}

	resp := postForm(t, server.URL+"/merge-pdf", []formFile{{"files", "a.pdf", merged}}, nil)
	expectError(t, resp, http.StatusBadRequest)

	rotated := readPDF(t, postForm(t, server.URL+"/rotate-pdf",
		[]formFile{{"file", "m.pdf", merged}}, map[string]string{"rotation": "180", "selectedPages": "1-2"}))
	if n := pageCount(t, rotated); n != 5 {
		t.Errorf("Expected 5 rotated pages, got %d", n)
	}
	resp = postForm(t, server.URL+"/rotate-pdf", []formFile{{"file", "m.pdf", merged}},
		map[string]string{"rotation": "45"})
	expectError(t, resp, http.StatusBadRequest)

	trimmed := readPDF(t, postForm(t, server.URL+"/remove-pages",
		[]formFile{{"file", "m.pdf", merged}}, map[string]string{"selectedPages": "1,5"}))
	if n := pageCount(t, trimmed); n != 3 {
		t.Errorf("Expected 3 pages after removal, got %d", n)
	}
	resp = postForm(t, server.URL+"/remove-pages", []formFile{{"file", "m.pdf", merged}},
		map[string]string{"selectedPages": "all"})
	expectError(t, resp, http.StatusBadRequest)
	resp = postForm(t, server.URL+"/remove-pages", []formFile{{"file", "m.pdf", merged}}, nil)
	expectError(t, resp, http.StatusBadRequest)

	extracted := readPDF(t, postForm(t, server.URL+"/extract-pages",
		[]formFile{{"file", "m.pdf", merged}}, map[string]string{"selectedPages": "2-3"}))
	if n := pageCount(t, extracted); n != 2 {
		t.Errorf("Expected 2 extracted pages, got %d", n)
	}
}

func TestReorderInsertAndNumberPages(t *testing.T) {
	server := setupTestServer(t)
	doc := fixturePDF(t, 3)

	resp := postForm(t, server.URL+"/reorder-pages",
		[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"order": "3-1"})
	reordered := readPDF(t, resp)
	if n := pageCount(t, reordered); n != 3 {
		t.Errorf("Expected 3 reordered pages, got %d", n)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "reordered_doc.pdf") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	for _, order := range []string{"", "1,2", "1,1,2", "1-4"} {
		resp = postForm(t, server.URL+"/reorder-pages",
			[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"order": order})
		expectError(t, resp, http.StatusBadRequest)
	}

	withBlank := readPDF(t, postForm(t, server.URL+"/insert-blank-page",
		[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"selectedPages": "1,3", "placement": "after"}))
	if n := pageCount(t, withBlank); n != 5 {
		t.Errorf("Expected 5 pages after inserting blanks, got %d", n)
	}
	resp = postForm(t, server.URL+"/insert-blank-page",
		[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"selectedPages": "1", "placement": "inside"})
	expectError(t, resp, http.StatusBadRequest)

	numbered := readPDF(t, postForm(t, server.URL+"/add-page-numbers",
		[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"format": "%p / %P", "position": "top-right"}))
	if n := pageCount(t, numbered); n != 3 {
		t.Errorf("Expected 3 numbered pages, got %d", n)
	}
	if bytes.Equal(numbered, doc) {
		t.Error("Expected page numbers to change the document")
	}
	resp = postForm(t, server.URL+"/add-page-numbers",
		[]formFile{{"file", "doc.pdf", doc}}, map[string]string{"position": "middle"})
	expectError(t, resp, http.StatusBadRequest)
}

func TestCORSPreflight(t *testing.T) {
	server := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/compress", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Expected Access-Control-Allow-Origin header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", resp.StatusCode)
	}
}

func TestLocalhostOnly(t *testing.T) {
	h := localhostOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for remote client, got %d", rec.Code)
	}

	req.RemoteAddr = "127.0.0.1:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for localhost, got %d", rec.Code)
	}
}

func TestDictionaryConfig(t *testing.T) {
	if d := dictionary(config.UnlockConfig{DictionaryEnabled: false}); d != nil {
		t.Errorf("Expected nil dictionary when disabled, got %v", d)
	}
	d := dictionary(config.UnlockConfig{DictionaryEnabled: true, Dictionary: []string{"", "a", "", "b", "a"}})
	if strings.Join(d, ",") != ",a,b" {
		t.Errorf("Unexpected dictionary %q", d)
	}
	if d := dictionary(config.UnlockConfig{DictionaryEnabled: true}); len(d) == 0 || d[0] != "" {
		t.Errorf("Expected default dictionary starting with the empty password")
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := *logger.Get()
	logger.SetLoggerForTest(zerolog.New(&buf))
	t.Cleanup(func() { logger.SetLoggerForTest(prev) })

	server := setupTestServer(t)
	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, `"path":"/"`) || !strings.Contains(out, `"req_id"`) {
		t.Errorf("Expected an access log line with a request id, got %q", out)
	}
}
