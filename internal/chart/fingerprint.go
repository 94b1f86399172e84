package chart

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/towerlens/towerlens/internal/model"
)

// fingerprintSample caps how many records contribute to a fingerprint.
// Hashing every row of a large input would cost more than the transform it
// is meant to avoid.
const fingerprintSample = 3

// Fingerprint builds a cheap deterministic cache key from a sample of the
// input records and the subset of options that affect the output shape.
// Inputs larger than ten records are sampled as first three plus last three;
// the record count keeps different-sized inputs from colliding. Options
// outside the whitelist (such as DateFormat) do not change the key, so
// unrelated option churn does not cause spurious misses.
func Fingerprint(records []model.Record, opts Options) string {
	sample := records
	if len(records) > 10 {
		sample = make([]model.Record, 0, 2*fingerprintSample)
		sample = append(sample, records[:fingerprintSample]...)
		sample = append(sample, records[len(records)-fingerprintSample:]...)
	}

	// json.Marshal sorts map keys, so identical records always serialize
	// identically.
	serialized, err := json.Marshal(sample)
	if err != nil {
		serialized = []byte(fmt.Sprintf("%v", sample))
	}

	payload := fmt.Sprintf("%d|%s|%s|%s|%d|%t",
		len(records), serialized, opts.SortBy, opts.SortDirection, opts.Limit, opts.GroupOthers)
	hash := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%x", hash)
}
