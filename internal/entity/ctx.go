package entity

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type (
	CtxKeyIP        struct{}
	CtxKeySubjectID struct{}
)

func IPFromCtx(ctx context.Context) string {
	ip, ok := ctx.Value(CtxKeyIP{}).(string)
	if !ok {
		return ""
	}

	return ip
}

func SubjectIDFromCtx(ctx context.Context) uuid.UUID {
	id, ok := ctx.Value(CtxKeySubjectID{}).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return id
}
