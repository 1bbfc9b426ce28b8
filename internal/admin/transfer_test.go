package admin

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cms/internal/cms"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestAcceptsImportFile(t *testing.T) {
	assert.True(t, AcceptsImportFile("data.xlsx"))
	assert.True(t, AcceptsImportFile("data.xls"))
	assert.True(t, AcceptsImportFile("DATA.XLSX"))
	assert.False(t, AcceptsImportFile("data.csv"))
	assert.False(t, AcceptsImportFile("data"))
	assert.False(t, AcceptsImportFile("data.xlsx.txt"))
}

func TestTransfer_ImportRejectsBadExtensionWithoutNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	notify := &recorder{}
	tr := NewTransfer(api, notify, zerolog.Nop())

	path := writeTempFile(t, "data.csv", []byte("a,b"))
	_, err := tr.Import(context.Background(), path)
	require.Error(t, err)

	assert.Zero(t, api.importCalls, "rejected files must cause no network call")
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], ".xlsx or .xls")
}

func TestTransfer_ImportSuccessSummary(t *testing.T) {
	api := &fakeAPI{importResult: &cms.ImportResult{
		ImportedCount:     8,
		SkippedDuplicates: 2,
		Errors:            []string{"Row 5: bad nic"},
	}}
	notify := &recorder{}
	tr := NewTransfer(api, notify, zerolog.Nop())

	path := writeTempFile(t, "data.xlsx", []byte("spreadsheet"))
	result, err := tr.Import(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "data.xlsx", api.importedFile)
	assert.Equal(t, int64(8), result.ImportedCount)
	require.Len(t, notify.successes, 1)
	assert.Equal(t, "Successfully imported 8 customers (2 duplicates skipped)", notify.successes[0])
	require.Len(t, notify.warns, 1)
	assert.Equal(t, "1 rows had errors.", notify.warns[0])
}

func TestTransfer_ImportCleanRunHasNoWarning(t *testing.T) {
	api := &fakeAPI{importResult: &cms.ImportResult{ImportedCount: 3}}
	notify := &recorder{}
	tr := NewTransfer(api, notify, zerolog.Nop())

	path := writeTempFile(t, "data.xls", []byte("spreadsheet"))
	_, err := tr.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, notify.warns)
}

func TestTransfer_ImportErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"bad request", &cms.APIError{Status: 400}, "could not be read"},
		{"too large", &cms.APIError{Status: 413}, "too large"},
		{"server error", &cms.APIError{Status: 500}, "could not process"},
		{"other status with message", &cms.APIError{Status: 409, Message: "duplicate NICs in file"}, "duplicate NICs in file"},
		{"other status bare", &cms.APIError{Status: 418}, "Import failed (HTTP 418)"},
		{"transport", errors.New("connection refused"), "no response from the server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{importErr: tt.err}
			notify := &recorder{}
			tr := NewTransfer(api, notify, zerolog.Nop())

			path := writeTempFile(t, "data.xlsx", []byte("spreadsheet"))
			_, err := tr.Import(context.Background(), path)
			require.Error(t, err)
			require.Len(t, notify.errors, 1)
			assert.Contains(t, notify.errors[0], tt.message)
		})
	}
}

func TestTransfer_ExportUsesServerFilename(t *testing.T) {
	api := &fakeAPI{exportData: []byte("binary"), exportName: "foo.xlsx"}
	notify := &recorder{}
	tr := NewTransfer(api, notify, zerolog.Nop())

	dir := t.TempDir()
	path, err := tr.Export(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "foo.xlsx"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("binary"), data)
	assert.Equal(t, []string{"Customers exported successfully"}, notify.successes)
}

func TestTransfer_ExportDefaultFilename(t *testing.T) {
	api := &fakeAPI{exportData: []byte("binary")}
	tr := NewTransfer(api, &recorder{}, zerolog.Nop())

	dir := t.TempDir()
	path, err := tr.Export(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "customers.xlsx"), path)
}

func TestTransfer_ExportErrorMessages(t *testing.T) {
	api := &fakeAPI{exportErr: &cms.APIError{Status: 500}}
	notify := &recorder{}
	tr := NewTransfer(api, notify, zerolog.Nop())

	_, err := tr.Export(context.Background(), t.TempDir())
	require.Error(t, err)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "HTTP 500")

	api = &fakeAPI{exportErr: errors.New("connection refused")}
	notify = &recorder{}
	tr = NewTransfer(api, notify, zerolog.Nop())

	_, err = tr.Export(context.Background(), t.TempDir())
	require.Error(t, err)
	require.Len(t, notify.errors, 1)
	assert.Contains(t, notify.errors[0], "backend is running")
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3, "header plus two sample rows")
	assert.Equal(t, "firstName,lastName,dateOfBirth,nic,email,gender", string(lines[0]))
	assert.Contains(t, string(lines[1]), "MALE")
	assert.Contains(t, string(lines[2]), "FEMALE")
}
