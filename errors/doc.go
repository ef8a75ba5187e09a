/*
Package errors provides semantic error types for the Astra DB node.

Every failure the node can report falls into one of a few kinds, each with a
sentinel that works with the standard errors.Is() function:

	var (
	    ErrInvalidCredentials   = errors.New("invalid credentials")
	    ErrInvalidIdentifier    = errors.New("invalid identifier")
	    ErrInvalidQuery         = errors.New("invalid query")
	    ErrInvalidOption        = errors.New("invalid option")
	    ErrInvalidJSON          = errors.New("invalid JSON")
	    ErrDatabase             = errors.New("database operation failed")
	    ErrConditionFailed      = errors.New("condition check failed")
	    ErrUnsupportedOperation = errors.New("unsupported operation")
	)

Validation kinds are raised before any database call is issued for an item;
IsValidationError reports that case.

Usage:

	filter, warnings, err := validation.ParseFilter(raw)
	if err != nil {
	    if errors.IsValidationError(err) {
	        // nothing was sent to the database
	    }
	    return err
	}

	err := errors.NewOptionError("limit", "must be between 1 and 1000")
	err := errors.NewIdentifierError("collection", "my-coll", "must match ^[A-Za-z][A-Za-z0-9_]*$")

Kind(err) maps any error to a stable name used in the errorType field of
continue-on-fail output records.
*/
package errors
