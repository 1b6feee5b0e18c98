package analysis

import (
	"errors"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

var (
	// ErrNotApplicable means the asset lacks the data an analysis needs, such
	// as a lifecycle profile or break-even point. Callers render it as N/A,
	// never as zero.
	ErrNotApplicable = errors.New("analysis not applicable")

	// ErrInvalidInput matches every ValidationError.
	ErrInvalidInput = models.ErrInvalidInput
)

// ValidationError identifies the input field that failed validation.
type ValidationError = models.ValidationError
