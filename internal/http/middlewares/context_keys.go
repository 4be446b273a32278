package middlewares

const (
	CtxRequestID = "request_id"
	CtxUserID    = "session.userID"
	CtxRole      = "session.role"
)
