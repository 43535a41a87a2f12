package retrieval

import "errors"

var (
	// ErrCaseBaseRequired is returned when a request carries no case base.
	ErrCaseBaseRequired = errors.New("case base required")

	// ErrQueryRequired is returned when a request carries no query value.
	ErrQueryRequired = errors.New("query required")

	// ErrFuncRequired is returned when a request carries no similarity function.
	ErrFuncRequired = errors.New("similarity function required")

	// ErrRetrieverRequired is returned when a pipeline is built without a retriever.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrNoStages is returned when a pipeline is built without stages.
	ErrNoStages = errors.New("pipeline needs at least one stage")
)
