package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
)

func newImportHandler(db *handlerMockDB) *Import {
	return NewImport(core.NewImportService(core.NewProductService(db, nil)))
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImportUpload_RawBody(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
	h := newImportHandler(db)

	data := workbook(t,
		[]any{"Name", "SKU", "Price", "Stock", "Sample Type"},
		[]any{"Ferritin Test", "FER-1", "29", "5", "Blood, Serum"},
	)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	rec := httptest.NewRecorder()

	h.Upload(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Failed)
}

func TestImportUpload_Multipart(t *testing.T) {
	db := &handlerMockDB{}
	h := newImportHandler(db)

	data := workbook(t,
		[]any{"Name", "SKU", "Price"},
		[]any{"", "NONAME", "10"},
	)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportUpload_MissingFileField(t *testing.T) {
	h := newImportHandler(&handlerMockDB{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "missing file field")
}

func TestImportUpload_NotAWorkbook(t *testing.T) {
	h := newImportHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()

	h.Upload(rec, newRequestRaw(http.MethodPost, "/api/v1/products/import", "name,sku\nA,B\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "open workbook")
}
