package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"a2admin/internal/sentinel"
	dErrors "a2admin/pkg/domain-errors"
)

func TestRunConcurrentSortsOutcomes(t *testing.T) {
	res := RunConcurrent(8, func(idx int) error {
		switch idx % 4 {
		case 0:
			return nil
		case 1:
			return dErrors.New(dErrors.CodeConflict, "busy")
		case 2:
			return fmt.Errorf("lookup: %w", sentinel.ErrNotFound)
		default:
			return errors.New("boom")
		}
	})

	assert.Equal(t, &ConcurrentResult{Successes: 2, Errors: 2, Conflicts: 2, NotFounds: 2}, res)
	assert.EqualValues(t, 8, res.Total())
}
