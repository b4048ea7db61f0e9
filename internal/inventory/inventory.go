// Package inventory downloads and parses the supplier's watch remnants feed.
package inventory

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"watchsync/internal/app_errors"
)

const (
	// DefaultStockURL is the supplier's published remnants archive.
	DefaultStockURL = "https://timeworld.ru/upload/files/ostatki.zip"

	remnantsFile = "ostatki.xlsx"

	// The feed carries seventeen banner rows before the column header.
	headerRowOffset = 17
)

// Remnant is one data row of the remnants spreadsheet. Quantity stays
// textual: besides plain integers the feed uses ">10" and "1" as markers
// (see StockCount).
type Remnant struct {
	Code     string
	Quantity string
	Price    string
}

// StockCount maps the feed's textual quantity to a sellable count.
// ">10" is the feed's "plenty" marker and becomes 100. "1" denotes the
// single display item, which is not sold, and becomes 0.
func (r Remnant) StockCount() (int, error) {
	switch r.Quantity {
	case ">10":
		return 100, nil
	case "1":
		return 0, nil
	}

	count, err := strconv.Atoi(r.Quantity)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q for code %q", app_errors.ErrBadData, r.Quantity, r.Code)
	}
	return count, nil
}

// Client fetches the zipped remnants spreadsheet.
type Client struct {
	httpClient *http.Client
	url        string
	dir        string
}

// NewClient creates a remnants feed client. An empty url selects
// DefaultStockURL; an empty dir extracts into the working directory.
func NewClient(httpClient *http.Client, url, dir string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if url == "" {
		url = DefaultStockURL
	}
	if dir == "" {
		dir = "."
	}
	return &Client{httpClient: httpClient, url: url, dir: dir}
}

// Download fetches the remnants archive, extracts the spreadsheet into the
// client directory and parses it. The extracted file is removed before
// returning, whether or not parsing succeeded.
func (c *Client) Download(ctx context.Context) ([]Remnant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &app_errors.StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}

	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	path, err := c.extract(archive)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	return ParseRemnants(path)
}

func (c *Client) extract(archive []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("%w: opening archive: %v", app_errors.ErrBadData, err)
	}

	for _, file := range reader.File {
		if file.Name != remnantsFile {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: opening %s: %v", app_errors.ErrBadData, file.Name, err)
		}
		defer src.Close()

		path := filepath.Join(c.dir, remnantsFile)
		dst, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("extracting %s: %w", file.Name, err)
		}

		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			os.Remove(path)
			return "", fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		if err := dst.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		return path, nil
	}

	return "", fmt.Errorf("%w: %s not found in archive", app_errors.ErrBadData, remnantsFile)
}

// ParseRemnants reads the remnants spreadsheet. The header sits below a
// fixed banner offset; blank cells read as empty strings. Rows without a
// product code (tail padding in the feed) are skipped.
func ParseRemnants(path string) ([]Remnant, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening spreadsheet: %v", app_errors.ErrBadData, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", app_errors.ErrBadData)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading rows: %v", app_errors.ErrBadData, err)
	}
	if len(rows) <= headerRowOffset {
		return nil, fmt.Errorf("%w: header row missing, got %d rows", app_errors.ErrBadData, len(rows))
	}

	codeCol, qtyCol, priceCol := -1, -1, -1
	for i, name := range rows[headerRowOffset] {
		switch strings.TrimSpace(name) {
		case "Код":
			codeCol = i
		case "Количество":
			qtyCol = i
		case "Цена":
			priceCol = i
		}
	}
	if codeCol < 0 || qtyCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("%w: header row misses expected columns", app_errors.ErrBadData)
	}

	remnants := make([]Remnant, 0, len(rows)-headerRowOffset-1)
	for _, row := range rows[headerRowOffset+1:] {
		remnant := Remnant{
			Code:     cell(row, codeCol),
			Quantity: cell(row, qtyCol),
			Price:    cell(row, priceCol),
		}
		if remnant.Code == "" {
			continue
		}
		remnants = append(remnants, remnant)
	}

	return remnants, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
