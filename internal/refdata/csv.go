package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Load reads the three reference CSV files and builds an immutable snapshot.
// A missing or unreadable file is logged and treated as an empty table so
// the service can still start; lookups against the missing table simply
// return ErrNotFound.
func Load(syndicatorsPath, dealerMappingPath, billingPath string, logger *zap.Logger) *Snapshot {
	syndicators := loadSyndicators(syndicatorsPath, logger)
	dealers := loadDealerMapping(dealerMappingPath, logger)
	billing := loadBilling(billingPath, logger)

	logger.Info("reference data loaded",
		zap.Int("syndicators", len(syndicators)),
		zap.Int("dealers", len(dealers)),
		zap.Int("billing_rows", len(billing)))

	return NewSnapshot(syndicators, dealers, billing)
}

func loadSyndicators(path string, logger *zap.Logger) []string {
	rows, err := readCSV(path)
	if err != nil {
		logger.Warn("could not load syndicators", zap.String("path", path), zap.Error(err))
		return nil
	}
	col, err := columnIndex(rows, "Syndicator")
	if err != nil {
		logger.Warn("syndicators file malformed", zap.String("path", path), zap.Error(err))
		return nil
	}
	out := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if name := cell(row, col); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func loadDealerMapping(path string, logger *zap.Logger) []DealerInfo {
	rows, err := readCSV(path)
	if err != nil {
		logger.Warn("could not load dealer mapping", zap.String("path", path), zap.Error(err))
		return nil
	}
	nameCol, err1 := columnIndex(rows, "Dealer Name")
	idCol, err2 := columnIndex(rows, "Dealer ID")
	repCol, err3 := columnIndex(rows, "Rep Name")
	if err1 != nil || err2 != nil || err3 != nil {
		logger.Warn("dealer mapping file malformed", zap.String("path", path))
		return nil
	}
	out := make([]DealerInfo, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		out = append(out, DealerInfo{
			DealerName: name,
			DealerID:   cell(row, idCol),
			Rep:        cell(row, repCol),
		})
	}
	return out
}

func loadBilling(path string, logger *zap.Logger) []BillingInfo {
	rows, err := readCSV(path)
	if err != nil {
		logger.Warn("could not load billing requirements", zap.String("path", path), zap.Error(err))
		return nil
	}
	idCol, err1 := columnIndex(rows, "Dealer ID")
	orderCol, err2 := columnIndex(rows, "Order Required")
	if err1 != nil || err2 != nil {
		logger.Warn("billing requirements file malformed", zap.String("path", path))
		return nil
	}
	pkgCol, _ := columnIndex(rows, "Package Type")
	feeCol, _ := columnIndex(rows, "Monthly Fee")
	notesCol, _ := columnIndex(rows, "Notes")

	out := make([]BillingInfo, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := cell(row, idCol)
		if id == "" {
			continue
		}
		out = append(out, BillingInfo{
			DealerID:      id,
			OrderRequired: strings.EqualFold(cell(row, orderCol), "yes"),
			PackageType:   cell(row, pkgCol),
			MonthlyFee:    cell(row, feeCol),
			Notes:         cell(row, notesCol),
		})
	}
	return out
}

// cell returns a trimmed field, tolerating short rows and absent columns.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	return rows, nil
}

func columnIndex(rows [][]string, header string) (int, error) {
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), header) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("missing column %q", header)
}
