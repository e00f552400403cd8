package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"titanic-ml/internal/common"
)

// WriteSubmission persists (PassengerId, Survived) pairs as a two-column
// CSV in the given row order.
func WriteSubmission(path string, ids []int, labels []int) error {
	if len(ids) != len(labels) {
		return fmt.Errorf("ids and labels length mismatch: %d vs %d", len(ids), len(labels))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create submission file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{common.ColPassengerID, common.ColSurvived}); err != nil {
		return err
	}
	for i, id := range ids {
		record := []string{strconv.Itoa(id), strconv.Itoa(labels[i])}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}

	log.Info().Str("file", path).Int("rows", len(ids)).Msg("Submission written")
	return nil
}
