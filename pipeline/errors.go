package pipeline

import "errors"

var (
	errEmptyDataset   = errors.New("dataset must have at least one column")
	errNoValueColumns = errors.New("dataset has no numeric value columns")
)
