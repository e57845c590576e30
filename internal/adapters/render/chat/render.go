package chat

import (
	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
)

func RenderReply(reply application.Reply) (string, error) {
	return run(func(s styles) string { return renderReply(reply, s) })
}

func RenderTrail(id domain.SessionID, records []domain.AuditRecord) (string, error) {
	return run(func(s styles) string { return renderTrail(id, records, s) })
}

func RenderSession(session domain.Session) (string, error) {
	return run(func(s styles) string { return renderSession(session, s) })
}
