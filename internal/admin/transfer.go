package admin

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/cms/internal/cms"
)

// DefaultExportFilename is used when the backend sends no
// Content-Disposition header.
const DefaultExportFilename = "customers.xlsx"

// TemplateHeader is the first row of the import template.
var TemplateHeader = []string{"firstName", "lastName", "dateOfBirth", "nic", "email", "gender"}

var acceptedImportExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// importStatusMessages maps known import failure statuses to operator-facing
// messages. Anything else falls back to a generic message with the status.
var importStatusMessages = map[int]string{
	http.StatusBadRequest:            "Import failed: the file could not be read. Check that it matches the template format.",
	http.StatusRequestEntityTooLarge: "Import failed: the file is too large.",
	http.StatusInternalServerError:   "Import failed: the server could not process the file.",
}

// TransferAPI is the slice of the API the import/export workflow needs.
type TransferAPI interface {
	ImportCustomers(ctx context.Context, filename string, r io.Reader) (*cms.ImportResult, error)
	ExportCustomers(ctx context.Context) ([]byte, string, error)
}

// Transfer drives the bulk import and export workflow around the customer
// list: extension gating, filename resolution, result summaries, and the
// static import template.
type Transfer struct {
	api    TransferAPI
	notify Notifier
	logger zerolog.Logger
}

func NewTransfer(api TransferAPI, notify Notifier, logger zerolog.Logger) *Transfer {
	return &Transfer{api: api, notify: notify, logger: logger}
}

// AcceptsImportFile reports whether the filename passes the client-side
// extension gate. Rejected files must cause no network call.
func AcceptsImportFile(name string) bool {
	return acceptedImportExts[strings.ToLower(filepath.Ext(name))]
}

// Export downloads the customer spreadsheet into dir, named by the
// response's Content-Disposition header or DefaultExportFilename. It returns
// the written path.
func (t *Transfer) Export(ctx context.Context, dir string) (string, error) {
	data, filename, err := t.api.ExportCustomers(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("export failed")
		if apiErr, ok := cms.AsAPIError(err); ok {
			t.notify.Error(fmt.Sprintf("Export failed (HTTP %d)", apiErr.Status))
		} else {
			t.notify.Error("Export failed: no response from the server. Check that the backend is running.")
		}
		return "", err
	}

	if filename == "" {
		filename = DefaultExportFilename
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.notify.Error("Export failed: could not save the file")
		return "", fmt.Errorf("write export file: %w", err)
	}

	t.notify.Success("Customers exported successfully")
	return path, nil
}

// Import validates the file extension, uploads the file, and reports the
// structured result. Row-level errors are summarized as a count for the
// user; each row detail goes to the debug log and remains available on the
// returned result.
func (t *Transfer) Import(ctx context.Context, path string) (*cms.ImportResult, error) {
	if !AcceptsImportFile(path) {
		t.notify.Error("Unsupported file type. Please select an .xlsx or .xls file.")
		return nil, fmt.Errorf("unsupported import file %q", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.notify.Error("Import failed: could not read the selected file")
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	result, err := t.api.ImportCustomers(ctx, filepath.Base(path), f)
	if err != nil {
		t.logger.Warn().Err(err).Str("file", filepath.Base(path)).Msg("import failed")
		t.notify.Error(importErrorMessage(err))
		return nil, err
	}

	t.notify.Success(fmt.Sprintf("Successfully imported %d customers (%d duplicates skipped)",
		result.ImportedCount, result.SkippedDuplicates))
	if len(result.Errors) > 0 {
		t.notify.Warn(fmt.Sprintf("%d rows had errors.", len(result.Errors)))
		for _, rowErr := range result.Errors {
			t.logger.Debug().Str("row_error", rowErr).Msg("import row error")
		}
	}

	return result, nil
}

func importErrorMessage(err error) string {
	apiErr, ok := cms.AsAPIError(err)
	if !ok {
		return "Import failed: no response from the server. Check that the backend is running."
	}
	if msg, found := importStatusMessages[apiErr.Status]; found {
		return msg
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("Import failed (HTTP %d)", apiErr.Status)
}

// WriteTemplate writes a small example CSV teaching the import schema:
// the header row plus two sample rows. No network call is involved.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		TemplateHeader,
		{"John", "Doe", "1990-05-14", "901351234V", "john.doe@example.com", "MALE"},
		{"Jane", "Smith", "1985-11-02", "853071234V", "jane.smith@example.com", "FEMALE"},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
