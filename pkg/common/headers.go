package common

type ContextKey string

const HeaderRequestID = "X-Request-Id"

var ContextKeyRequestID = ContextKey("Request-Id")
