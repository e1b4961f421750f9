package repository

import "errors"

// ErrNotFound is returned by Load when no value has been stored under the
// requested key. It abstracts away the driver error (sql.ErrNoRows), so
// callers never depend on the database implementation. First run of the
// application hits this for both logical keys.
var ErrNotFound = errors.New("repository: not found")
