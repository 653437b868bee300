package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
)

// LoadCSV reads the ledger from a CSV file with a header row matching the
// Transaction csv tags.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	records, err := DecodeCSV(f)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset: loaded csv",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return New(records), nil
}

// DecodeCSV decodes transactions from CSV content.
func DecodeCSV(r io.Reader) ([]model.Transaction, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "dataset: csv header")
	}

	var records []model.Transaction
	for {
		var tx model.Transaction
		if err := dec.Decode(&tx); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "dataset: decode csv row")
		}
		records = append(records, tx)
	}
	return records, nil
}
