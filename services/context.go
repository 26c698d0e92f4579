package services

type ctxKey string

// RequestIDKey carries the X-Request-ID value in a request's user context.
const RequestIDKey ctxKey = "request_id"
