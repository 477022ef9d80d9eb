package session

import "context"

type ctxSessionKey struct{}

func NewContext(c context.Context, s *Session) context.Context {
	return context.WithValue(c, ctxSessionKey{}, s)
}

func FromContext(c context.Context) (*Session, bool) {
	s, ok := c.Value(ctxSessionKey{}).(*Session)
	return s, ok && s != nil
}
