// Package dataset reads the passenger tables the pipeline consumes and
// writes the two-column prediction table it produces. Missing numeric
// cells become NaN, missing categorical cells become the empty string;
// a missing required column or an unparseable cell is a schema error.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"titanic-ml/internal/common"
)

// ErrSchema is returned when an expected column is absent or a cell has
// the wrong type. Schema errors are fatal: the pipeline has no recovery
// or partial-result mode.
var ErrSchema = errors.New("dataset: schema error")

// Passenger is one record of the input table. Age and Fare are NaN when
// missing; Cabin and Embarked are "" when missing. Survived is only
// meaningful when Labeled is true.
type Passenger struct {
	ID       int
	Survived int
	Labeled  bool
	Pclass   int
	Sex      string
	Age      float64
	SibSp    int
	Parch    int
	Fare     float64
	Cabin    string
	Embarked string
}

// FamilySize is the derived attribute SibSp + Parch.
func (p Passenger) FamilySize() int {
	return p.SibSp + p.Parch
}

// Load reads a passenger CSV. The file must carry all required columns;
// Survived is optional and its presence decides whether the records are
// labeled.
func Load(path string) ([]Passenger, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	indices := make(map[string]int)
	for i, col := range header {
		indices[col] = i
	}
	for _, col := range common.RequiredColumns {
		if _, ok := indices[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrSchema, col)
		}
	}
	_, labeled := indices[common.ColSurvived]

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	passengers := make([]Passenger, 0, len(records))
	for row, record := range records {
		p, err := parseRow(record, indices, labeled)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+2, err)
		}
		passengers = append(passengers, p)
	}

	log.Info().
		Str("file", path).
		Int("rows", len(passengers)).
		Bool("labeled", labeled).
		Msg("Dataset loaded")

	return passengers, nil
}

func parseRow(record []string, indices map[string]int, labeled bool) (Passenger, error) {
	var p Passenger

	id, err := parseInt(record, indices, common.ColPassengerID)
	if err != nil {
		return p, err
	}
	p.ID = id

	if labeled {
		survived, err := parseInt(record, indices, common.ColSurvived)
		if err != nil {
			return p, err
		}
		if survived != 0 && survived != 1 {
			return p, fmt.Errorf("%w: %s must be 0 or 1, got %d", ErrSchema, common.ColSurvived, survived)
		}
		p.Survived = survived
		p.Labeled = true
	}

	p.Pclass, err = parseInt(record, indices, common.ColPclass)
	if err != nil {
		return p, err
	}
	if !containsInt(common.PclassCategories, p.Pclass) {
		return p, fmt.Errorf("%w: unknown %s %d", ErrSchema, common.ColPclass, p.Pclass)
	}

	p.Sex = record[indices[common.ColSex]]
	if !containsString(common.SexCategories, p.Sex) {
		return p, fmt.Errorf("%w: unknown %s %q", ErrSchema, common.ColSex, p.Sex)
	}

	p.Age, err = parseOptionalFloat(record, indices, common.ColAge)
	if err != nil {
		return p, err
	}

	p.SibSp, err = parseInt(record, indices, common.ColSibSp)
	if err != nil {
		return p, err
	}
	p.Parch, err = parseInt(record, indices, common.ColParch)
	if err != nil {
		return p, err
	}
	if p.SibSp < 0 || p.Parch < 0 {
		return p, fmt.Errorf("%w: negative family count", ErrSchema)
	}

	p.Fare, err = parseOptionalFloat(record, indices, common.ColFare)
	if err != nil {
		return p, err
	}
	if !math.IsNaN(p.Fare) && p.Fare < 0 {
		return p, fmt.Errorf("%w: negative %s", ErrSchema, common.ColFare)
	}

	p.Cabin = record[indices[common.ColCabin]]

	p.Embarked = record[indices[common.ColEmbarked]]
	if p.Embarked != "" && !containsString(common.EmbarkedCategories, p.Embarked) {
		return p, fmt.Errorf("%w: unknown %s %q", ErrSchema, common.ColEmbarked, p.Embarked)
	}

	return p, nil
}

func parseInt(record []string, indices map[string]int, col string) (int, error) {
	v, err := strconv.Atoi(record[indices[col]])
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer: %q", ErrSchema, col, record[indices[col]])
	}
	return v, nil
}

// parseOptionalFloat maps an empty cell to NaN.
func parseOptionalFloat(record []string, indices map[string]int, col string) (float64, error) {
	raw := record[indices[col]]
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not numeric: %q", ErrSchema, col, raw)
	}
	return v, nil
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
