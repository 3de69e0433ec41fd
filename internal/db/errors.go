package db

// ConnectionError means no connection could be acquired from the pool.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "acquire db connection: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means a connection was acquired but the statement failed.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string { return "query " + e.Query + ": " + e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }
