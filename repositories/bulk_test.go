package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func bulkErr(writeErrors ...mongo.BulkWriteError) error {
	return mongo.BulkWriteException{WriteErrors: writeErrors}
}

func TestDuplicateFailuresAllDuplicates(t *testing.T) {
	err := bulkErr(
		mongo.BulkWriteError{WriteError: mongo.WriteError{Index: 1, Code: 11000}},
		mongo.BulkWriteError{WriteError: mongo.WriteError{Index: 3, Code: 11000}},
	)
	failed, onlyDup := duplicateFailures(err)
	assert.True(t, onlyDup)
	assert.Equal(t, map[int]bool{1: true, 3: true}, failed)
}

func TestDuplicateFailuresMixedErrors(t *testing.T) {
	err := bulkErr(
		mongo.BulkWriteError{WriteError: mongo.WriteError{Index: 0, Code: 11000}},
		mongo.BulkWriteError{WriteError: mongo.WriteError{Index: 2, Code: 121}}, // validation failure
	)
	_, onlyDup := duplicateFailures(err)
	assert.False(t, onlyDup)
}

func TestDuplicateFailuresNonBulkError(t *testing.T) {
	_, onlyDup := duplicateFailures(errors.New("connection reset"))
	assert.False(t, onlyDup)
}
