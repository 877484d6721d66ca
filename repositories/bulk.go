package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyCode = 11000

// duplicateFailures inspects an unordered InsertMany error and returns
// the input indexes that collided with a unique index. onlyDuplicates
// is false when any failure was something other than a duplicate key,
// in which case the caller must treat the whole insert as failed.
//
// Collisions are an accepted outcome here: the model regenerates
// previously seen content, and the unique index is what deduplicates
// concurrent generations.
func duplicateFailures(err error) (failed map[int]bool, onlyDuplicates bool) {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return nil, false
	}
	if bwe.WriteConcernError != nil {
		return nil, false
	}

	failed = make(map[int]bool, len(bwe.WriteErrors))
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return nil, false
		}
		failed[we.Index] = true
	}
	return failed, true
}
