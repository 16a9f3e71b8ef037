package common

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/japinli/pg-duckdb/errors"
)

// LogInternalError logs err with a random reference id and returns an opaque error
// carrying only the reference. Internal details stay in the server logs so invariant
// violations don't leak implementation detail to the caller, but can still be looked
// up.
func LogInternalError(err error) errors.PgDuckError {
	id, err2 := uuid.NewRandom()
	var errRef string
	if err2 != nil {
		log.Errorf("failed to generate uuid %v", err2)
		errRef = ""
	} else {
		errRef = id.String()
	}
	perr := errors.NewInternalError(errRef)
	log.Errorf("internal error occurred with reference %s\n%+v", errRef, err)
	return perr
}
