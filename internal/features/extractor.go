package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"titanic-ml/internal/common"
	"titanic-ml/internal/dataset"
)

// Extractor maps a record set to a feature matrix with a fixed column
// layout: one-hot passenger class (3), sex (2), cabin presence (2),
// embarkation port (3), then normalized age, fare, sibsp, parch and
// family size. Column order and count are identical across training and
// prediction-time extraction.
//
// Fill values and normalization statistics are recomputed from the
// record set handed to each call, not frozen from a training pass, so
// train-time and predict-time statistics differ; callers relying on
// strict train/test feature isolation must account for it.
type Extractor struct {
	imputer *AgeImputer
}

// NewExtractor returns an extractor using the given imputer for missing
// ages.
func NewExtractor(imputer *AgeImputer) *Extractor {
	return &Extractor{imputer: imputer}
}

// Extract derives one feature vector per record. Records are mutated in
// place as gaps are filled (cabin collapse, port and fare defaults, age
// imputation) before encoding. Every step reads only this record set.
func (e *Extractor) Extract(passengers []dataset.Passenger) (*mat.Dense, error) {
	if len(passengers) == 0 {
		return nil, fmt.Errorf("%w: empty record set", dataset.ErrSchema)
	}

	// Cabin collapses to a presence indicator before anything else.
	for i := range passengers {
		if passengers[i].Cabin != "" {
			passengers[i].Cabin = "Yes"
		} else {
			passengers[i].Cabin = "No"
		}
	}

	for i := range passengers {
		if passengers[i].Embarked == "" {
			passengers[i].Embarked = common.DefaultEmbarked
		}
	}

	if err := fillFares(passengers); err != nil {
		return nil, err
	}

	anyMissingAge := false
	for i := range passengers {
		if math.IsNaN(passengers[i].Age) {
			anyMissingAge = true
			break
		}
	}
	if anyMissingAge {
		if _, err := e.imputer.Fill(passengers); err != nil {
			return nil, err
		}
	}

	rows := len(passengers)
	X := mat.NewDense(rows, common.FeatureWidth, nil)

	for i, p := range passengers {
		row := make([]float64, 0, common.FeatureWidth)
		row = append(row, oneHotInt(p.Pclass, common.PclassCategories)...)
		row = append(row, oneHotString(p.Sex, common.SexCategories)...)
		row = append(row, oneHotString(p.Cabin, common.CabinCategories)...)
		row = append(row, oneHotString(p.Embarked, common.EmbarkedCategories)...)
		row = append(row,
			p.Age,
			p.Fare,
			float64(p.SibSp),
			float64(p.Parch),
			float64(p.FamilySize()),
		)
		if err := validateOneHot(row, p); err != nil {
			return nil, err
		}
		X.SetRow(i, row)
	}

	// Normalize the five numeric columns to zero mean and unit variance
	// using this record set's own statistics.
	for col := 10; col < common.FeatureWidth; col++ {
		normalizeColumn(X, col)
	}

	log.Debug().
		Int("rows", rows).
		Int("cols", common.FeatureWidth).
		Bool("imputed", anyMissingAge).
		Msg("Features extracted")

	return X, nil
}

// fillFares replaces missing fares with the median fare of the current
// record set. For an even count the median is the mean of the two
// middle values.
func fillFares(passengers []dataset.Passenger) error {
	var observed []float64
	for i := range passengers {
		if !math.IsNaN(passengers[i].Fare) {
			observed = append(observed, passengers[i].Fare)
		}
	}
	if len(observed) == 0 {
		return fmt.Errorf("%w: no observed fares to compute median", dataset.ErrSchema)
	}

	sort.Float64s(observed)
	n := len(observed)
	median := observed[n/2]
	if n%2 == 0 {
		median = (observed[n/2-1] + observed[n/2]) / 2
	}

	for i := range passengers {
		if math.IsNaN(passengers[i].Fare) {
			passengers[i].Fare = median
		}
	}
	return nil
}

// oneHotInt encodes v against a fixed category list. An unseen category
// yields an all-zero block, caught by validateOneHot.
func oneHotInt(v int, categories []int) []float64 {
	out := make([]float64, len(categories))
	for i, c := range categories {
		if v == c {
			out[i] = 1
		}
	}
	return out
}

func oneHotString(v string, categories []string) []float64 {
	out := make([]float64, len(categories))
	for i, c := range categories {
		if v == c {
			out[i] = 1
		}
	}
	return out
}

// validateOneHot rejects records whose categorical attributes fall
// outside the fixed category sets. Unseen categories are a schema error,
// never a silent fallback.
func validateOneHot(row []float64, p dataset.Passenger) error {
	blocks := []struct {
		start, width int
		name         string
	}{
		{0, 3, common.ColPclass},
		{3, 2, common.ColSex},
		{5, 2, common.ColCabin},
		{7, 3, common.ColEmbarked},
	}
	for _, b := range blocks {
		var sum float64
		for _, v := range row[b.start : b.start+b.width] {
			sum += v
		}
		if sum != 1 {
			return fmt.Errorf("%w: passenger %d has no known %s category", dataset.ErrSchema, p.ID, b.name)
		}
	}
	return nil
}

// normalizeColumn rescales one column to zero mean and unit variance. A
// constant column becomes all zeros.
func normalizeColumn(X *mat.Dense, col int) {
	rows, _ := X.Dims()
	values := make([]float64, rows)
	mat.Col(values, col, X)

	mean := stat.Mean(values, nil)
	std := math.Sqrt(stat.PopVariance(values, nil))

	for i := 0; i < rows; i++ {
		if std == 0 {
			X.Set(i, col, 0)
		} else {
			X.Set(i, col, (values[i]-mean)/std)
		}
	}
}
