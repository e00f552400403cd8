package common

// Input table column names
const (
	ColPassengerID = "PassengerId"
	ColSurvived    = "Survived"
	ColPclass      = "Pclass"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
)

// RequiredColumns are the columns every input table must carry.
// Survived is optional: absent for prediction-only input.
var RequiredColumns = []string{
	ColPassengerID, ColPclass, ColSex, ColAge,
	ColSibSp, ColParch, ColFare, ColCabin, ColEmbarked,
}

// Fixed one-hot category sets. Hardcoded rather than inferred from the
// data so the feature matrix keeps the same column count no matter which
// categories a particular slice happens to contain.
var (
	PclassCategories   = []int{1, 2, 3}
	SexCategories      = []string{"female", "male"}
	CabinCategories    = []string{"No", "Yes"}
	EmbarkedCategories = []string{"C", "Q", "S"}
)

// DefaultEmbarked is the fill value for a missing embarkation port:
// the most frequent port in the reference training population.
const DefaultEmbarked = "S"

// FeatureWidth is the fixed width of every extracted feature vector:
// 10 one-hot columns (3 class + 2 sex + 2 cabin + 3 port) followed by
// 5 normalized numeric columns (age, fare, sibsp, parch, family size).
const FeatureWidth = 15

// Environment variable keys
const (
	EnvTrainPath      = "TRAIN_PATH"
	EnvTestPath       = "TEST_PATH"
	EnvSubmissionPath = "SUBMISSION_PATH"
	EnvDataPath       = "DATA_PATH"
	EnvFolds          = "FOLDS"
	EnvSeed           = "SEED"
	EnvImputerTrees   = "IMPUTER_TREES"
	EnvForestTrees    = "FOREST_TREES"
	EnvTreeDepth      = "TREE_DEPTH"
	EnvEpochs         = "EPOCHS"
	EnvLearningRate   = "LEARNING_RATE"
	EnvLogLevel       = "LOG_LEVEL"
)

// Configuration defaults
const (
	DefaultTrainPath      = "data/train.csv"
	DefaultSubmissionPath = "submission.csv"
	DefaultFolds          = 3
	DefaultSeed           = 1
	DefaultImputerTrees   = 200
	DefaultForestTrees    = 200
	DefaultTreeDepth      = 10
	DefaultEpochs         = 500
	DefaultLearningRate   = 0.1
)
